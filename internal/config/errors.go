package config

import "errors"

// Configuration validation errors. These are returned by Config.Validate()
// as package-level sentinels so callers can use errors.Is() while still
// getting human-readable messages.
var (
	// ErrNoInput is returned when no raw export file is specified.
	ErrNoInput = errors.New("no input specified: provide one or more raw JSON export files")

	// ErrInvalidDelimiter is returned when the output delimiter is not a
	// single character, or is a character CSV cannot use as a separator.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than newline or double quote")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrSameOutputPath is returned when the elections and voting-methods
	// tables would be written to the same file.
	ErrSameOutputPath = errors.New("conflicting output paths: elections and voting-methods outputs must differ")

	// ErrInvalidLocale is returned when the locale is empty or blank.
	ErrInvalidLocale = errors.New("invalid locale: must be a locale tag such as en_US")
)
