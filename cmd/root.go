// Package cmd implements the aware-kernel CLI.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aware-kernel",
	Short: "Apply declarative operation plans to a document tree",
	Long: `aware-kernel is the plan engine of the aware orchestration kernel.

Object handlers express mutations as declarative plans; this tool applies
plan documents to a document tree, seeds trees from environment manifests,
indexes the resulting journal entries, and serves the engine over MCP.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
