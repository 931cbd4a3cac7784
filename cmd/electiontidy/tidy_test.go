package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ballotops/electiontidy/internal/config"
)

// testExport is a single-page export with one well-formed election.
const testExport = `[
  {
    "results": [
      {
        "election_id": "e1",
        "type": "general",
        "date": "2020-11-03",
        "election_name": {"en_US": "General Election"},
        "district": {"state": "CA", "ocd_id": "ocd-division/country:us/state:ca"},
        "voting_methods": [
          {
            "excuse-required": false,
            "type": "early-voting",
            "instructions": {"voting-id": {"en_US": "Bring ID"}}
          }
        ],
        "third_party_verified": {"is_verified": true, "date": "2020-01-15"}
      }
    ]
  }
]`

// writeTestExport writes the fixture export into dir and returns its path.
func writeTestExport(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "raw.json")
	if err := os.WriteFile(path, []byte(testExport), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestTidyCommand(t *testing.T) {
	t.Run("flattens an export end to end", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTestExport(t, dir)
		electionsOut := filepath.Join(dir, "elections.csv")
		methodsOut := filepath.Join(dir, "voting_methods.csv")

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"tidy", input, "-e", electionsOut, "-m", methodsOut})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(electionsOut) //nolint:gosec // Test-owned temp path
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "General Election") {
			t.Errorf("expected elections output to contain the election name, got %q", string(data))
		}

		data, err = os.ReadFile(methodsOut) //nolint:gosec // Test-owned temp path
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "method_instructions") {
			t.Errorf("expected voting methods header, got %q", string(data))
		}
	})

	t.Run("missing input file fails", func(t *testing.T) {
		dir := t.TempDir()

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{
			"tidy", filepath.Join(dir, "nope.json"),
			"-e", filepath.Join(dir, "elections.csv"),
			"-m", filepath.Join(dir, "voting_methods.csv"),
		})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing input")
		}
	})

	t.Run("no input fails validation", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"tidy"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing input argument")
		}
	})

	t.Run("invalid locale fails", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTestExport(t, dir)

		cmd := NewRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"tidy", input, "-l", "not a locale"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for invalid locale")
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Run("flags map onto the config", func(t *testing.T) {
		cmd := NewTidyCmd()
		mustSetFlag(t, cmd, "elections-output", "out/e.csv")
		mustSetFlag(t, cmd, "methods-output", "out/m.csv")
		mustSetFlag(t, cmd, "locale", "es_US")
		mustSetFlag(t, cmd, "delimiter", ";")
		mustSetFlag(t, cmd, "summary", "true")
		mustSetFlag(t, cmd, "batch", "2")

		cfg, err := buildConfig(cmd, []string{"raw.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ElectionsOutput != "out/e.csv" {
			t.Errorf("expected elections output out/e.csv, got %q", cfg.ElectionsOutput)
		}
		if cfg.MethodsOutput != "out/m.csv" {
			t.Errorf("expected methods output out/m.csv, got %q", cfg.MethodsOutput)
		}
		if cfg.Locale != "es_US" {
			t.Errorf("expected locale es_US, got %q", cfg.Locale)
		}
		if cfg.Delimiter != ";" {
			t.Errorf("expected delimiter ';', got %q", cfg.Delimiter)
		}
		if !cfg.Summary {
			t.Error("expected summary to be enabled")
		}
		if cfg.BatchSize != 2 {
			t.Errorf("expected batch size 2, got %d", cfg.BatchSize)
		}
		if len(cfg.InputPaths) != 1 || cfg.InputPaths[0] != "raw.json" {
			t.Errorf("expected input paths [raw.json], got %v", cfg.InputPaths)
		}
	})

	t.Run("explicit missing config file fails", func(t *testing.T) {
		cmd := NewTidyCmd()
		mustSetFlag(t, cmd, "config", filepath.Join(t.TempDir(), "nope.yaml"))

		if _, err := buildConfig(cmd, []string{"raw.json"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("file defaults fill untouched flags", func(t *testing.T) {
		content := "defaults:\n  locale: es_US\n  delimiter: \";\"\n"
		path := filepath.Join(t.TempDir(), ".electiontidy")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cmd := NewTidyCmd()
		mustSetFlag(t, cmd, "config", path)

		cfg, err := buildConfig(cmd, []string{"raw.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Locale != "es_US" {
			t.Errorf("expected file default locale es_US, got %q", cfg.Locale)
		}
		if cfg.Delimiter != ";" {
			t.Errorf("expected file default delimiter ';', got %q", cfg.Delimiter)
		}
	})

	t.Run("changed flags beat file defaults", func(t *testing.T) {
		content := "defaults:\n  locale: es_US\n"
		path := filepath.Join(t.TempDir(), ".electiontidy")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cmd := NewTidyCmd()
		mustSetFlag(t, cmd, "config", path)
		mustSetFlag(t, cmd, "locale", "en_US")

		cfg, err := buildConfig(cmd, []string{"raw.json"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Locale != "en_US" {
			t.Errorf("expected flag locale en_US, got %q", cfg.Locale)
		}
	})
}

// mustSetFlag sets a flag value, failing the test on error.
func mustSetFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()

	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRuns(t *testing.T) {
	t.Parallel()

	t.Run("single input keeps configured output paths", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.InputPaths = []string{"data/raw/march.json"}
		cfg.FileConfig = &config.File{Inputs: map[string]config.InputConfig{}}

		runs, err := buildRuns(cfg, "en_US")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		if runs[0].ElectionsOutput != config.DefaultElectionsOutput {
			t.Errorf("expected default elections output, got %q", runs[0].ElectionsOutput)
		}
		if runs[0].Locale != "en_US" {
			t.Errorf("expected locale en_US, got %q", runs[0].Locale)
		}
	})

	t.Run("multiple inputs derive prefixed outputs", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.InputPaths = []string{"data/march.json", "data/april.json"}
		cfg.FileConfig = &config.File{Inputs: map[string]config.InputConfig{}}

		runs, err := buildRuns(cfg, "en_US")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if runs[0].ElectionsOutput != "march_elections.csv" {
			t.Errorf("expected march_elections.csv, got %q", runs[0].ElectionsOutput)
		}
		if runs[1].MethodsOutput != "april_voting_methods.csv" {
			t.Errorf("expected april_voting_methods.csv, got %q", runs[1].MethodsOutput)
		}
	})

	t.Run("per-input overrides win over prefixing", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.InputPaths = []string{"data/march.json", "data/april.json"}
		cfg.FileConfig = &config.File{Inputs: map[string]config.InputConfig{
			"data/march.json": {
				ElectionsOutput: "custom/march.csv",
				Locale:          "es-US",
			},
		}}

		runs, err := buildRuns(cfg, "en_US")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if runs[0].ElectionsOutput != "custom/march.csv" {
			t.Errorf("expected custom/march.csv, got %q", runs[0].ElectionsOutput)
		}
		if runs[0].Locale != "es_US" {
			t.Errorf("expected canonicalized locale es_US, got %q", runs[0].Locale)
		}
		if runs[1].Locale != "en_US" {
			t.Errorf("expected fallback locale en_US, got %q", runs[1].Locale)
		}
	})

	t.Run("invalid per-input locale fails", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.InputPaths = []string{"march.json"}
		cfg.FileConfig = &config.File{Inputs: map[string]config.InputConfig{
			"march.json": {Locale: "not a locale"},
		}}

		if _, err := buildRuns(cfg, "en_US"); err == nil {
			t.Error("expected error for invalid per-input locale")
		}
	})
}

func TestPrefixedOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		outputPath string
		inputPath  string
		want       string
	}{
		{
			name:       "bare file names",
			outputPath: "elections.csv",
			inputPath:  "march.json",
			want:       "march_elections.csv",
		},
		{
			name:       "input in a directory",
			outputPath: "elections.csv",
			inputPath:  "data/raw/march.json",
			want:       "march_elections.csv",
		},
		{
			name:       "output in a directory",
			outputPath: "out/elections.csv",
			inputPath:  "march.json",
			want:       "out/march_elections.csv",
		},
		{
			name:       "input without extension",
			outputPath: "elections.csv",
			inputPath:  "march",
			want:       "march_elections.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := prefixedOutputPath(tt.outputPath, tt.inputPath); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
