package cmd

import (
	"fmt"
	"os"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List freelance services",
	Long:  `List the freelance services marketplace: gigs, rates, delivery times, and ratings.`,
	RunE:  runServices,
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}

func runServices(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	services, ok := env.client.ListServices(cmd.Context())
	if !ok {
		return fmt.Errorf("services unavailable: backend unreachable and nothing cached")
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"ID", "Title", "Rate", "Delivery", "Rating"})

	for _, s := range services {
		t.AppendRow(prettytable.Row{
			s.ID,
			s.Title,
			formatPrice(s.RateCents, s.Currency),
			fmt.Sprintf("%dd", s.DeliveryDays),
			fmt.Sprintf("%.1f", s.Rating),
		})
	}

	t.Render()
	fmt.Printf("\n%d services\n", len(services))
	return nil
}
