// Package config provides configuration structures and utilities for
// electiontidy. It defines the options for the flatten run, output paths,
// locale selection, and the .electiontidy YAML configuration file.
package config
