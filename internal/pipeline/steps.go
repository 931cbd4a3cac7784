package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ballotops/electiontidy/internal/model"
	"github.com/ballotops/electiontidy/internal/report"
	"github.com/ballotops/electiontidy/internal/tidy"
)

// LoadStep reads the raw JSON export from the run's input path and
// decodes its pages.
type LoadStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewLoadStep creates a new load step.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do reads and decodes the raw export file.
func (s *LoadStep) Do(_ context.Context, run *model.Run) error {
	f, err := os.Open(run.InputPath) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return fmt.Errorf("failed to open raw export: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	pages, err := model.DecodePages(f)
	if err != nil {
		return err
	}

	run.Pages = pages
	s.logger.Debug("raw export loaded",
		"input", run.InputPath,
		"pages", len(pages),
	)
	return nil
}

// ExtractStep concatenates the result lists of all pages into one
// ordered sequence.
type ExtractStep struct {
	logger *slog.Logger
}

// NewExtractStep creates a new extract step.
func NewExtractStep(logger *slog.Logger) *ExtractStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{logger: logger}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts result records from the decoded pages.
func (s *ExtractStep) Do(_ context.Context, run *model.Run) error {
	run.Results = tidy.ExtractResults(run.Pages)
	s.logger.Debug("results extracted",
		"input", run.InputPath,
		"results", len(run.Results),
	)
	return nil
}

// ElectionsStep produces the per-election table by running the four
// tidy transforms and outer-joining them on election_id.
type ElectionsStep struct {
	logger *slog.Logger
}

// NewElectionsStep creates a new elections step.
func NewElectionsStep(logger *slog.Logger) *ElectionsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ElectionsStep{logger: logger}
}

// Name returns the step name.
func (s *ElectionsStep) Name() string {
	return "tidy-elections"
}

// Do builds the elections table.
func (s *ElectionsStep) Do(_ context.Context, run *model.Run) error {
	table, err := tidy.JoinElections(run.Results, run.Locale)
	if err != nil {
		return err
	}

	run.Elections = table
	s.logger.Debug("elections table built",
		"input", run.InputPath,
		"rows", table.Len(),
		"columns", len(table.Columns()),
	)
	return nil
}

// MethodsStep produces the per-(election, method position) table.
type MethodsStep struct {
	logger *slog.Logger
}

// NewMethodsStep creates a new voting-methods step.
func NewMethodsStep(logger *slog.Logger) *MethodsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MethodsStep{logger: logger}
}

// Name returns the step name.
func (s *MethodsStep) Name() string {
	return "tidy-voting-methods"
}

// Do builds the voting-methods table.
func (s *MethodsStep) Do(_ context.Context, run *model.Run) error {
	table, err := tidy.TidyVotingMethods(run.Results, run.Locale)
	if err != nil {
		return err
	}

	run.Methods = table
	s.logger.Debug("voting methods table built",
		"input", run.InputPath,
		"rows", table.Len(),
		"columns", len(table.Columns()),
	)
	return nil
}

// WriteStep writes both tables as delimited text files, and optionally a
// markdown run summary.
type WriteStep struct {
	// delimiter is the output field separator.
	delimiter rune

	// summary enables writing the markdown run summary.
	summary bool

	logger *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithWriteDelimiter sets the output field separator.
func WithWriteDelimiter(delimiter rune) WriteStepOption {
	return func(s *WriteStep) {
		s.delimiter = delimiter
	}
}

// WithWriteSummary enables the markdown run summary output.
func WithWriteSummary(summary bool) WriteStepOption {
	return func(s *WriteStep) {
		s.summary = summary
	}
}

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a new write step.
func NewWriteStep(opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{
		delimiter: ',',
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes the output files.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if err := s.writeTable(run.Elections, run.ElectionsOutput); err != nil {
		return fmt.Errorf("elections table: %w", err)
	}
	s.logger.Debug("elections table written",
		"output", run.ElectionsOutput,
		"rows", run.Elections.Len(),
	)

	if err := s.writeTable(run.Methods, run.MethodsOutput); err != nil {
		return fmt.Errorf("voting methods table: %w", err)
	}
	s.logger.Debug("voting methods table written",
		"output", run.MethodsOutput,
		"rows", run.Methods.Len(),
	)

	if s.summary {
		if err := s.writeSummary(run); err != nil {
			return fmt.Errorf("run summary: %w", err)
		}
		s.logger.Debug("run summary written", "output", run.SummaryOutput)
	}

	return nil
}

// writeTable writes one table as delimited text.
func (s *WriteStep) writeTable(table *model.Table, path string) error {
	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Flushed before return below

	w := report.NewCSVWriter(f, report.WithDelimiter(s.delimiter))
	if _, err := w.WriteTable(table); err != nil {
		return err
	}
	return f.Close()
}

// writeSummary writes the markdown run summary.
func (s *WriteStep) writeSummary(run *model.Run) error {
	f, err := createOutputFile(run.SummaryOutput)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // Flushed before return below

	w := report.NewMarkdownWriter(f)
	if _, err := w.WriteRun(run); err != nil {
		return err
	}
	return f.Close()
}

// createOutputFile creates an output file, making parent directories as needed.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Tabular outputs are shareable artifacts
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// DefaultPipelineOption configures the steps built by DefaultPipeline.
type DefaultPipelineOption func(*defaultPipelineConfig)

// defaultPipelineConfig holds the shared step settings.
type defaultPipelineConfig struct {
	delimiter rune
	summary   bool
	logger    *slog.Logger
}

// WithPipelineDelimiter sets the output field separator.
func WithPipelineDelimiter(delimiter rune) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.delimiter = delimiter
	}
}

// WithPipelineSummary enables the markdown run summary output.
func WithPipelineSummary(summary bool) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.summary = summary
	}
}

// WithPipelineStepLogger sets the logger shared by the default steps.
func WithPipelineStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.logger = logger
	}
}

// DefaultPipeline creates the standard flatten pipeline:
// load, extract, tidy-elections, tidy-voting-methods, write.
func DefaultPipeline(pipelineOpts []Option, opts ...DefaultPipelineOption) *Pipeline {
	cfg := &defaultPipelineConfig{
		delimiter: ',',
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	p := New(pipelineOpts...)
	p.AddSteps(
		NewLoadStep(cfg.logger),
		NewExtractStep(cfg.logger),
		NewElectionsStep(cfg.logger),
		NewMethodsStep(cfg.logger),
		NewWriteStep(
			WithWriteDelimiter(cfg.delimiter),
			WithWriteSummary(cfg.summary),
			WithWriteLogger(cfg.logger),
		),
	)
	return p
}
