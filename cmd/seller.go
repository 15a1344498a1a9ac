package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"souq/internal/validation"
)

var sellerCmd = &cobra.Command{
	Use:   "seller <seller-id>",
	Short: "Show a seller's dashboard summary",
	Long: `Show the dashboard summary for a seller: active listings, today's
orders and revenue, rating, and unread messages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeller,
}

func init() {
	rootCmd.AddCommand(sellerCmd)
}

func runSeller(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	sellerID := args[0]
	if err := validation.ValidateUserID(sellerID); err != nil {
		return err
	}

	stats, ok := env.client.SellerStats(cmd.Context(), sellerID)
	if !ok {
		return fmt.Errorf("seller stats unavailable: backend unreachable and nothing cached")
	}

	fmt.Printf("Seller %s:\n", stats.SellerID)
	fmt.Printf("  Active listings: %d\n", stats.ActiveListings)
	fmt.Printf("  Orders today:    %d\n", stats.OrdersToday)
	fmt.Printf("  Revenue today:   %s\n", formatPrice(stats.RevenueCents, ""))
	fmt.Printf("  Rating:          %.1f\n", stats.Rating)
	fmt.Printf("  Unread messages: %d\n", stats.UnreadMessages)

	return nil
}
