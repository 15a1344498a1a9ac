package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"souq/internal/realtime"
	"souq/internal/storefront"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive catalog browser",
	Long: `Browse the product catalog interactively with a terminal UI.

Navigate listings with keyboard controls and open product details. While
the browser is open it watches the backend change feed: whenever a product
changes, the cached catalog is invalidated and the listing reloads.

Examples:
  souq browse          # Browse the full catalog`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	// Change feed: poll the backend and fan events out to the catalog
	// binding, which invalidates the cache and nudges the UI to reload.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	poller := realtime.NewPoller(env.client, realtime.NewBroker(), env.cfg.PollInterval.Std(), env.log)
	poller.Start(ctx)
	defer poller.Stop()

	events := make(chan tea.Msg, 8)
	binding := env.client.BindCatalog(poller, func(ctx context.Context, ev realtime.Event) {
		select {
		case events <- catalogChangedMsg{}:
		default:
			// UI already has a pending reload; dropping is fine, the
			// reload after invalidation picks up everything.
		}
	})
	live := binding.Mount()
	defer binding.Unmount()

	model := newBrowserModel(env.client, events, live)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		// Fallback to static listing if interactive mode fails
		return runStaticBrowse(cmd.Context(), env.client)
	}

	return nil
}

func runStaticBrowse(ctx context.Context, client *storefront.Client) error {
	products, ok := client.ListProducts(ctx)
	if !ok {
		return fmt.Errorf("catalog unavailable: backend unreachable and nothing cached")
	}

	fmt.Println("🛍  souq catalog")

	if len(products) == 0 {
		fmt.Println("No products listed right now")
		return nil
	}

	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(prettytable.StyleRounded)
	t.AppendHeader(prettytable.Row{"ID", "Name", "Price", "Stock"})

	for _, p := range products {
		t.AppendRow(prettytable.Row{
			p.ID,
			p.Name,
			formatPrice(p.PriceCents, p.Currency),
			p.Stock,
		})
	}

	t.Render()
	fmt.Println("\nUse 'souq products PRODUCT_ID' to inspect a product")

	return nil
}
