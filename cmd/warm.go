package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Pre-cache the hot catalog data",
	Long: `Fetch the product catalog and services listing and write them into the
local cache, so the first browse after a cold start is instant. Fetch
failures are logged but never fail the command; warming is best-effort.`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	env.client.WarmCatalog(cmd.Context())
	fmt.Println("Cache warmed")
	return nil
}
