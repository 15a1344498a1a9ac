package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"souq/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "souq",
	Short: "Souq marketplace client",
	Long: `Souq is a command-line companion for the souq marketplace: browse the
catalog, manage your cart and wishlist, and watch listings update live.

All reads go through a local offline-first cache, so previously seen data
stays available when the backend is slow or unreachable.

Common usage:
  souq browse                      # Interactive catalog browser
  souq products                    # List the catalog
  souq cart --user u1              # Show a user's cart
  souq cache stats                 # Inspect the local cache`,
	Version: "1.2.0",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var souqErr *errors.SouqError
		if stderrors.As(err, &souqErr) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", souqErr.UserFriendlyMessage())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
