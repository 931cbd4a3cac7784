package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ballotops/electiontidy/internal/config"
	"github.com/ballotops/electiontidy/internal/database"
	"github.com/ballotops/electiontidy/internal/locale"
	"github.com/ballotops/electiontidy/internal/log"
	"github.com/ballotops/electiontidy/internal/model"
	"github.com/ballotops/electiontidy/internal/pipeline"
)

// NewTidyCmd creates the tidy command.
func NewTidyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidy [raw-export.json...]",
		Short: "Flatten raw election exports into tidy CSV tables",
		Long: `Tidy flattens one or more raw JSON election exports.

For each input it reads the paginated pages, concatenates their result
records, and produces two delimited tables:
- elections: one row per election_id with scalar attributes, the
  localized name, district fields, and verification fields
- voting methods: one row per (election_id, method position), with
  method fields prefixed method_ and the localized instruction string

Lookups into nested structures are unguarded: a missing locale key or a
missing district/third_party_verified sub-mapping aborts the run.

Examples:
  # Flatten a single export with default output paths
  electiontidy tidy elections.json

  # Choose output paths and a locale
  electiontidy tidy -e out/elections.csv -m out/methods.csv -l en-US elections.json

  # Tab-separated output
  electiontidy tidy -d "$(printf '\t')" elections.json

  # Also write a markdown run summary and save run history
  electiontidy tidy --summary --save elections.json

  # Flatten several exports concurrently
  electiontidy tidy -b 4 march.json april.json may.json

Configuration file (.electiontidy) example:
  defaults:
    locale: en_US
    delimiter: ","
  inputs:
    data/raw/march.json:
      elections_output: data/processed/march_elections.csv
      methods_output: data/processed/march_methods.csv`,
		Args: cobra.ArbitraryArgs,
		RunE: runTidyCmd,
	}

	// Output flags
	cmd.Flags().StringP("elections-output", "e", config.DefaultElectionsOutput,
		"Output path for the elections table")
	cmd.Flags().StringP("methods-output", "m", config.DefaultMethodsOutput,
		"Output path for the voting-methods table")
	cmd.Flags().StringP("delimiter", "d", config.DefaultDelimiter,
		"Output field delimiter (single character)")

	// Extraction flags
	cmd.Flags().StringP("locale", "l", config.DefaultLocale,
		"Locale key for localized election names (e.g. en_US or en-US)")

	// Summary flags
	cmd.Flags().BoolP("summary", "s", false,
		"Also write a markdown run summary")
	cmd.Flags().String("summary-output", config.DefaultSummaryOutput,
		"Output path for the markdown run summary")

	// History flags
	cmd.Flags().Bool("save", false,
		"Save run metadata to the history database")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of inputs flattened concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .electiontidy in current or home directory)")

	return cmd
}

// runTidyCmd executes the tidy command.
func runTidyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runTidy(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Flag values take precedence over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ElectionsOutput, err = cmd.Flags().GetString("elections-output")
	if err != nil {
		return nil, err
	}

	cfg.MethodsOutput, err = cmd.Flags().GetString("methods-output")
	if err != nil {
		return nil, err
	}

	cfg.Delimiter, err = cmd.Flags().GetString("delimiter")
	if err != nil {
		return nil, err
	}

	cfg.Locale, err = cmd.Flags().GetString("locale")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.SummaryOutput, err = cmd.Flags().GetString("summary-output")
	if err != nil {
		return nil, err
	}

	cfg.Save, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load defaults and per-input overrides from the config file.
	// If the user explicitly specified a config file path, error if not
	// found; otherwise silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FileConfig = &config.File{
			Inputs: make(map[string]config.InputConfig),
		}
	}

	// File defaults apply where the user left the flag untouched.
	applyFileDefaults(cmd, cfg)

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the raw export files.
	cfg.InputPaths = args

	return cfg, nil
}

// applyFileDefaults overrides built-in defaults with config-file defaults
// for flags the user did not set explicitly.
func applyFileDefaults(cmd *cobra.Command, cfg *config.Config) {
	defaults := cfg.FileConfig.Defaults

	if !cmd.Flags().Changed("elections-output") && defaults.ElectionsOutput != "" {
		cfg.ElectionsOutput = defaults.ElectionsOutput
	}
	if !cmd.Flags().Changed("methods-output") && defaults.MethodsOutput != "" {
		cfg.MethodsOutput = defaults.MethodsOutput
	}
	if !cmd.Flags().Changed("locale") && defaults.Locale != "" {
		cfg.Locale = defaults.Locale
	}
	if !cmd.Flags().Changed("delimiter") && defaults.Delimiter != "" {
		cfg.Delimiter = defaults.Delimiter
	}
}

// runTidy executes the flatten runs.
func runTidy(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	localeKey, err := locale.CanonicalKey(cfg.Locale)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger.Info("starting tidy",
		"inputs", cfg.InputPaths,
		"locale", localeKey,
		"batchSize", cfg.BatchSize,
		"save", cfg.Save,
	)

	// Open the history database if saving is enabled
	var db *database.RunDB
	if cfg.Save {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort cleanup
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	runs, err := buildRuns(cfg, localeKey)
	if err != nil {
		return err
	}

	if len(runs) > 1 && cfg.BatchSize > 1 {
		return runBatchTidy(ctx, cfg, runs, db, logger)
	}
	return runSequentialTidy(ctx, cfg, runs, db, logger)
}

// buildRuns creates one Run per input, applying per-input config-file
// overrides. With multiple inputs, each input derives prefixed output
// paths from its file name so outputs do not clobber each other.
func buildRuns(cfg *config.Config, localeKey string) ([]*model.Run, error) {
	multi := len(cfg.InputPaths) > 1

	runs := make([]*model.Run, 0, len(cfg.InputPaths))
	for _, input := range cfg.InputPaths {
		ic := cfg.InputConfigFor(input)

		run := model.NewRun(input)
		run.Locale = localeKey
		if ic.Locale != "" {
			key, err := locale.CanonicalKey(ic.Locale)
			if err != nil {
				return nil, fmt.Errorf("config for %s: %w", input, err)
			}
			run.Locale = key
		}

		run.ElectionsOutput = cfg.ElectionsOutput
		if ic.ElectionsOutput != "" {
			run.ElectionsOutput = ic.ElectionsOutput
		} else if multi {
			run.ElectionsOutput = prefixedOutputPath(cfg.ElectionsOutput, input)
		}

		run.MethodsOutput = cfg.MethodsOutput
		if ic.MethodsOutput != "" {
			run.MethodsOutput = ic.MethodsOutput
		} else if multi {
			run.MethodsOutput = prefixedOutputPath(cfg.MethodsOutput, input)
		}

		run.SummaryOutput = cfg.SummaryOutput
		if multi {
			run.SummaryOutput = prefixedOutputPath(cfg.SummaryOutput, input)
		}

		runs = append(runs, run)
	}
	return runs, nil
}

// prefixedOutputPath derives a per-input output path by prefixing the
// output file name with the input's base name:
// ("elections.csv", "data/march.json") -> "march_elections.csv".
func prefixedOutputPath(outputPath, inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(outputPath), base+"_"+filepath.Base(outputPath))
}

// runSequentialTidy flattens inputs one at a time. A failed input does
// not stop later inputs, but the first failure becomes the exit error so
// a lookup failure still aborts with a non-zero status.
func runSequentialTidy(ctx context.Context, cfg *config.Config, runs []*model.Run, db *database.RunDB, logger *slog.Logger) error {
	var firstErr error
	for _, run := range runs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipelineForRun(cfg, logger)

		fmt.Printf("Flattening %s...\n", run.InputPath)
		startTime := time.Now()

		if err := p.Execute(ctx, run); err != nil {
			logger.Error("flatten failed", "input", run.InputPath, "error", err)
			fmt.Fprintf(os.Stderr, "Flatten error for %s: %v\n", run.InputPath, err)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			elapsed := time.Since(startTime)
			fmt.Printf("Wrote %s (%d rows) and %s (%d rows) in %s\n\n",
				run.ElectionsOutput, run.Elections.Len(),
				run.MethodsOutput, run.Methods.Len(),
				elapsed.Round(time.Millisecond))
		}

		if err := saveRun(ctx, db, run, logger); err != nil {
			logger.Error("failed to save run", "input", run.InputPath, "error", err)
		}
	}

	return firstErr
}

// runBatchTidy flattens multiple inputs concurrently using BatchProcessor.
func runBatchTidy(ctx context.Context, cfg *config.Config, runs []*model.Run, db *database.RunDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch flatten of %d inputs (concurrency: %d)...\n\n",
		len(runs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipelineForRun(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var mu sync.Mutex
	var firstErr error
	err := bp.ProcessBatchWithCallback(ctx, runs, func(run *model.Run, index int) {
		mu.Lock()
		defer mu.Unlock()

		if run.Failed() {
			fmt.Fprintf(os.Stderr, "[%d/%d] Flatten error for %s: %s\n",
				index+1, len(runs), run.InputPath, run.ErrorMessage)
			if firstErr == nil {
				firstErr = run.Error
			}
		} else {
			fmt.Printf("[%d/%d] Flattened %s: %d elections, %d voting-method rows\n",
				index+1, len(runs), run.InputPath, run.Elections.Len(), run.Methods.Len())
		}

		if err := saveRun(ctx, db, run, logger); err != nil {
			logger.Error("failed to save run", "input", run.InputPath, "error", err)
		}
	})

	fmt.Printf("\nBatch flatten completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err != nil {
		return err
	}
	return firstErr
}

// createPipelineForRun creates the standard flatten pipeline with the
// configured output settings.
func createPipelineForRun(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.DefaultPipeline(
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineDelimiter([]rune(cfg.Delimiter)[0]),
		pipeline.WithPipelineSummary(cfg.Summary),
		pipeline.WithPipelineStepLogger(logger),
	)
}

// saveRun saves the run to the history database if enabled.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.RunDB, run *model.Run, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history database", "input", run.InputPath, "id", id)
	return nil
}
