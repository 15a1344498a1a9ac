package cmd

import (
	"fmt"
	"os"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"souq/internal/validation"
)

var wishlistUser string

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show or replace a user's wishlist",
	Long: `Show the wishlist for a user, or replace it wholesale.

Examples:
  souq wishlist --user u1
  souq wishlist set p-1 p-2 p-3 --user u1
  souq wishlist set --user u1              # Clear the wishlist`,
	RunE: runWishlistShow,
}

var wishlistSetCmd = &cobra.Command{
	Use:   "set [product-id...]",
	Short: "Replace the wishlist with the given products",
	RunE:  runWishlistSet,
}

func init() {
	rootCmd.AddCommand(wishlistCmd)
	wishlistCmd.AddCommand(wishlistSetCmd)

	wishlistCmd.PersistentFlags().StringVar(&wishlistUser, "user", "", "user ID (defaults to user_id from config)")
}

func runWishlistShow(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	userID, err := requireUser(env, wishlistUser)
	if err != nil {
		return err
	}

	entries, ok := env.client.ListWishlist(cmd.Context(), userID)
	if !ok {
		return fmt.Errorf("wishlist unavailable: backend unreachable and nothing cached")
	}

	if len(entries) == 0 {
		fmt.Println("Wishlist is empty")
		return nil
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"Product", "Name", "Price", "Saved"})

	for _, entry := range entries {
		t.AppendRow(prettytable.Row{
			entry.ProductID,
			entry.Name,
			formatPrice(entry.PriceCents, ""),
			entry.SavedAt.Format("2006-01-02"),
		})
	}

	t.Render()
	return nil
}

func runWishlistSet(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	userID, err := requireUser(env, wishlistUser)
	if err != nil {
		return err
	}
	for _, id := range args {
		if err := validation.ValidateProductID(id); err != nil {
			return err
		}
	}

	if err := env.client.SetWishlist(cmd.Context(), userID, args); err != nil {
		return fmt.Errorf("failed to update wishlist: %w", err)
	}

	if len(args) == 0 {
		fmt.Println("Wishlist cleared")
	} else {
		fmt.Printf("Wishlist set to: %s\n", strings.Join(args, ", "))
	}
	return nil
}
