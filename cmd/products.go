package cmd

import (
	"fmt"
	"os"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"souq/internal/validation"
)

var productsCategory string

var productsCmd = &cobra.Command{
	Use:   "products [product-id]",
	Short: "List the product catalog or show one product",
	Long: `List the product catalog, or show a single product in detail.

Results come from the local cache when fresh; otherwise the backend is
queried and the cache updated. When the backend is unreachable the last
cached data is shown instead.

Examples:
  souq products                    # List the catalog
  souq products p-1042             # Show one product
  souq products --category books   # Filter the listing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().StringVar(&productsCategory, "category", "", "only list products in this category")
}

func runProducts(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if len(args) == 1 {
		return showProduct(cmd, env, args[0])
	}

	products, ok := env.client.ListProducts(cmd.Context())
	if !ok {
		return fmt.Errorf("catalog unavailable: backend unreachable and nothing cached")
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"ID", "Name", "Price", "Stock", "Seller"})

	shown := 0
	for _, p := range products {
		if productsCategory != "" && p.Category != productsCategory {
			continue
		}
		t.AppendRow(prettytable.Row{
			p.ID,
			p.Name,
			formatPrice(p.PriceCents, p.Currency),
			p.Stock,
			p.SellerID,
		})
		shown++
	}

	t.Render()
	fmt.Printf("\n%d products\n", shown)
	return nil
}

func showProduct(cmd *cobra.Command, env *appEnv, id string) error {
	if err := validation.ValidateProductID(id); err != nil {
		return err
	}

	product, ok := env.client.GetProduct(cmd.Context(), id)
	if !ok {
		return fmt.Errorf("product %q unavailable: backend unreachable and nothing cached", id)
	}

	fmt.Printf("Product: %s\n", product.Name)
	fmt.Printf("  ID:       %s\n", product.ID)
	fmt.Printf("  Price:    %s\n", formatPrice(product.PriceCents, product.Currency))
	fmt.Printf("  Stock:    %d\n", product.Stock)
	fmt.Printf("  Seller:   %s\n", product.SellerID)
	if product.Category != "" {
		fmt.Printf("  Category: %s\n", product.Category)
	}
	if product.Description != "" {
		fmt.Printf("\n%s\n", product.Description)
	}
	return nil
}

// formatPrice renders cents as a currency amount, e.g. 1999 USD -> "19.99 USD"
func formatPrice(cents int64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

func requireUser(env *appEnv, flagValue string) (string, error) {
	userID := flagValue
	if userID == "" {
		userID = env.cfg.UserID
	}
	if userID == "" {
		return "", fmt.Errorf("no user: pass --user or set user_id in the config file")
	}
	if err := validation.ValidateUserID(userID); err != nil {
		return "", err
	}
	return userID, nil
}
