// Command apportion serves the expense ranking page and offers CLI access to the
// weight calculator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "apportion",
		Short:         "Rank expense categories and derive budget weights",
		Long:          "apportion ranks seven expense categories by importance and turns a pairwise comparison matrix into recommended budget weights.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newWeightsCmd(),
		newRankCmd(),
		newCalculateCmd(),
		newWatchCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
