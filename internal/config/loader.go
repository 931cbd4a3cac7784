package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".electiontidy"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file structure. It carries defaults for
// every run plus per-input overrides keyed by input file path.
type File struct {
	// Defaults apply to every input unless overridden.
	Defaults InputConfig `yaml:"defaults"`

	// Inputs holds per-input overrides keyed by the input file path.
	Inputs map[string]InputConfig `yaml:"inputs"`
}

// InputConfig holds the configurable values for one input file.
type InputConfig struct {
	// ElectionsOutput overrides the elections table output path.
	ElectionsOutput string `yaml:"elections_output"`

	// MethodsOutput overrides the voting-methods table output path.
	MethodsOutput string `yaml:"methods_output"`

	// Locale overrides the locale key for localized name extraction.
	Locale string `yaml:"locale"`

	// Delimiter overrides the output field delimiter.
	Delimiter string `yaml:"delimiter"`
}

// LoadConfigFile loads run configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide how to handle that based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Inputs == nil {
		cf.Inputs = make(map[string]InputConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .electiontidy in the current directory
// 3. Look for .electiontidy in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
