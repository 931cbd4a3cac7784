package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("registers all subcommands", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()

		want := []string{"tidy", "history", "init", "version"}
		for _, name := range want {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected subcommand %q to be registered", name)
			}
		}
	})

	t.Run("help mentions the two output tables", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--help"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "one row per election") {
			t.Error("expected help to describe the elections table")
		}
		if !strings.Contains(output, "voting-method") {
			t.Error("expected help to describe the voting-methods table")
		}
	})

	t.Run("unknown subcommand fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"nope"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for unknown subcommand")
		}
	})
}
