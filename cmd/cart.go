package cmd

import (
	"fmt"
	"os"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"souq/internal/validation"
)

var (
	cartUser     string
	cartQuantity int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or edit a user's cart",
	Long: `Show the cart for a user, or add and remove items.

The cart listing is cached briefly; mutations go straight to the backend
and invalidate the cached cart so the next read is fresh.

Examples:
  souq cart --user u1              # Show the cart
  souq cart add p-1042 --user u1   # Add one unit
  souq cart rm p-1042 --user u1    # Remove the line`,
	RunE: runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:     "rm <product-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a product from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runCartRemove,
}

func init() {
	rootCmd.AddCommand(cartCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)

	cartCmd.PersistentFlags().StringVar(&cartUser, "user", "", "user ID (defaults to user_id from config)")
	cartAddCmd.Flags().IntVar(&cartQuantity, "quantity", 1, "units to add")
}

func runCartShow(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	userID, err := requireUser(env, cartUser)
	if err != nil {
		return err
	}

	items, ok := env.client.ListCart(cmd.Context(), userID)
	if !ok {
		return fmt.Errorf("cart unavailable: backend unreachable and nothing cached")
	}

	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return nil
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"Product", "Name", "Qty", "Price"})

	var totalCents int64
	for _, item := range items {
		t.AppendRow(prettytable.Row{
			item.ProductID,
			item.Name,
			item.Quantity,
			formatPrice(item.PriceCents, ""),
		})
		totalCents += item.PriceCents * int64(item.Quantity)
	}
	t.AppendFooter(prettytable.Row{"", "Total", "", formatPrice(totalCents, "")})

	t.Render()
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	userID, err := requireUser(env, cartUser)
	if err != nil {
		return err
	}
	if err := validation.ValidateProductID(args[0]); err != nil {
		return err
	}
	if cartQuantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	if err := env.client.AddToCart(cmd.Context(), userID, args[0], cartQuantity); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	fmt.Printf("Added %dx %s to cart\n", cartQuantity, args[0])
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	userID, err := requireUser(env, cartUser)
	if err != nil {
		return err
	}
	if err := validation.ValidateProductID(args[0]); err != nil {
		return err
	}

	if err := env.client.RemoveFromCart(cmd.Context(), userID, args[0]); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	fmt.Printf("Removed %s from cart\n", args[0])
	return nil
}
