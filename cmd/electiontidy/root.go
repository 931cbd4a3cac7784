// Package main provides the entry point for the electiontidy CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for electiontidy.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "electiontidy",
		Short: "Flatten nested JSON election exports into tidy CSV tables",
		Long: `electiontidy reshapes a nested JSON export of election records into flat
tabular form for downstream analysis.

It reads paginated raw JSON, extracts per-election result records, and
produces two tables: one row per election (attributes, district,
verification status, name) and one row per (election, voting-method) pair.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewTidyCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
