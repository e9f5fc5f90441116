package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Search and validate vehicle catalog feeds",
		SilenceUsage: true, // don't print usage on operational errors
		Long: `catalogctl runs the catalog matcher against a CSV feed without starting
the server. Queries match strictly first and fall back to typo-tolerant
matching only when nothing matches strictly.`,
	}

	rootCmd.AddCommand(newSearchCmd(), newValidateCmd())
	return rootCmd
}
