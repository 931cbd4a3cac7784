package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ballotops/electiontidy/internal/config"
	"github.com/ballotops/electiontidy/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists flatten runs persisted with 'tidy --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved flatten runs",
		Long: `History lists flatten runs saved to the run-history database.

Each entry shows when the run happened, which export was flattened, how
many rows each table produced, and whether the run completed. Runs are
saved by 'electiontidy tidy --save'.

Examples:
  # List the most recent runs
  electiontidy history

  # List the last 5 runs
  electiontidy history -n 5

  # List runs for a specific export file
  electiontidy history --input data/raw/elections.json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().String("input", "",
		"Only list runs for this input path")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	inputPath, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	// Open read-only: listing history must not create an empty database.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no run history found (save runs with 'electiontidy tidy --save'): %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort cleanup

	ctx := cmd.Context()

	var records []*database.RunRecord
	if inputPath != "" {
		records, err = db.ListRunsByInput(ctx, inputPath, limit)
	} else {
		records, err = db.ListRuns(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}

	printRunRecords(cmd, records)
	return nil
}

// printRunRecords prints saved runs as an aligned text table.
func printRunRecords(cmd *cobra.Command, records []*database.RunRecord) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-4s  %-19s  %-9s  %9s  %7s  %-8s  %s\n",
		"ID", "TIMESTAMP", "LOCALE", "ELECTIONS", "METHODS", "STATUS", "INPUT")
	fmt.Fprintln(out, strings.Repeat("-", 88))

	for _, rec := range records {
		fmt.Fprintf(out, "%-4d  %-19s  %-9s  %9d  %7d  %-8s  %s\n",
			rec.ID,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Locale,
			rec.ElectionRows,
			rec.MethodRows,
			rec.Status,
			rec.InputPath,
		)

		if rec.ErrorMessage != "" {
			fmt.Fprintf(out, "      error: %s\n", rec.ErrorMessage)
		}
	}
}
