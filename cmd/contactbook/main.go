// Command contactbook runs the ContactBook API server and its maintenance
// subcommands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HerbHall/contactbook/internal/version"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root without a
// subcommand serves the API.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "contactbook",
		Short:        "Contacts and phones HTTP API",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(
		newServeCmd(&configPath),
		newTokenCmd(&configPath),
		newBackupCmd(&configPath),
		newRestoreCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			},
		},
	)
	return root
}
