package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ballotops/electiontidy/internal/database"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("has expected defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()

		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if limit != 20 {
			t.Errorf("expected default limit 20, got %d", limit)
		}

		input, err := cmd.Flags().GetString("input")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input != "" {
			t.Errorf("expected empty default input filter, got %q", input)
		}
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"extra"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for positional argument")
		}
	})
}

func TestPrintRunRecords(t *testing.T) {
	t.Parallel()

	records := []*database.RunRecord{
		{
			ID:           2,
			InputPath:    "data/raw/april.json",
			Locale:       "en_US",
			ElectionRows: 12,
			MethodRows:   31,
			Status:       database.StatusComplete,
			Timestamp:    time.Date(2020, 11, 3, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           1,
			InputPath:    "data/raw/march.json",
			Locale:       "en_US",
			Status:       database.StatusFailed,
			ErrorMessage: "missing field: district",
			Timestamp:    time.Date(2020, 10, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	cmd := NewHistoryCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	printRunRecords(cmd, records)

	output := buf.String()
	if !strings.Contains(output, "data/raw/april.json") {
		t.Error("expected output to list the april run")
	}
	if !strings.Contains(output, database.StatusFailed) {
		t.Error("expected output to show the failed status")
	}
	if !strings.Contains(output, "error: missing field: district") {
		t.Error("expected output to show the error message")
	}
	if !strings.Contains(output, "ID") || !strings.Contains(output, "TIMESTAMP") {
		t.Error("expected output to contain a header row")
	}
}
