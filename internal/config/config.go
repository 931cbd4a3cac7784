package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values. Output file names follow the processed
// file names of the original export layout.
const (
	// DefaultElectionsOutput is the default path of the elections table.
	DefaultElectionsOutput = "elections.csv"

	// DefaultMethodsOutput is the default path of the voting-methods table.
	DefaultMethodsOutput = "voting_methods.csv"

	// DefaultSummaryOutput is the default path of the markdown run summary.
	DefaultSummaryOutput = "summary.md"

	// DefaultLocale is the locale key used to extract localized names.
	// The raw export keys localized strings by underscore-form locales.
	DefaultLocale = "en_US"

	// DefaultDelimiter is the output field delimiter.
	DefaultDelimiter = ","

	// DefaultBatchSize is the number of input files tidied concurrently.
	// The transform itself is single-threaded per input; concurrency only
	// spans independent files, so a small limit is enough.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "electiontidy"
)

// Config holds all options for a flatten run. It is populated from CLI
// flags and the optional configuration file, then passed through the
// application by value rather than via global state.
type Config struct {
	// InputPaths are the raw JSON export files to flatten.
	InputPaths []string

	// ElectionsOutput is the path of the per-election CSV table.
	// With multiple inputs, each input derives its own prefixed path.
	ElectionsOutput string

	// MethodsOutput is the path of the voting-methods CSV table.
	MethodsOutput string

	// Locale selects which localized election name to extract.
	// Accepts BCP 47 ("en-US") or underscore ("en_US") forms.
	Locale string

	// Delimiter is the output field delimiter. Must be a single
	// character and not a newline or double quote.
	Delimiter string

	// Summary enables writing a markdown run summary.
	Summary bool

	// SummaryOutput is the path of the markdown summary file.
	SummaryOutput string

	// Save enables persisting run metadata to the history database.
	Save bool

	// BatchSize is the number of input files processed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .electiontidy in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds values loaded from the configuration file.
	FileConfig *File

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// DBDir is the directory of the SQLite run-history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		ElectionsOutput: DefaultElectionsOutput,
		MethodsOutput:   DefaultMethodsOutput,
		SummaryOutput:   DefaultSummaryOutput,
		Locale:          DefaultLocale,
		Delimiter:       DefaultDelimiter,
		BatchSize:       DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for electiontidy.
// On Linux: ~/.local/share/electiontidy.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for electiontidy.
// On Linux: ~/.config/electiontidy.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// error found; fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.InputPaths) == 0 {
		return ErrNoInput
	}

	if len([]rune(c.Delimiter)) != 1 || c.Delimiter == "\n" || c.Delimiter == "\r" || c.Delimiter == `"` {
		return ErrInvalidDelimiter
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.ElectionsOutput == c.MethodsOutput {
		return ErrSameOutputPath
	}

	if strings.TrimSpace(c.Locale) == "" {
		return ErrInvalidLocale
	}

	return nil
}

// InputConfigFor returns the per-input configuration for a path, merged
// over the file defaults. Missing entries fall back to the defaults.
func (c *Config) InputConfigFor(path string) InputConfig {
	if c.FileConfig == nil {
		return InputConfig{}
	}

	if ic, ok := c.FileConfig.Inputs[path]; ok {
		return mergeInputConfig(c.FileConfig.Defaults, ic)
	}
	return c.FileConfig.Defaults
}

// mergeInputConfig merges the file defaults with per-input overrides.
func mergeInputConfig(defaults, override InputConfig) InputConfig {
	result := defaults

	if override.ElectionsOutput != "" {
		result.ElectionsOutput = override.ElectionsOutput
	}
	if override.MethodsOutput != "" {
		result.MethodsOutput = override.MethodsOutput
	}
	if override.Locale != "" {
		result.Locale = override.Locale
	}
	if override.Delimiter != "" {
		result.Delimiter = override.Delimiter
	}

	return result
}
