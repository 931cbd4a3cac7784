// Package report provides output writers for tidy tables and run summaries.
//
// This package contains writers for the supported formats:
//   - CSVWriter: delimited table output with a header row
//   - MarkdownWriter: markdown run summary for documentation and sharing
//
// Table writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-destination output.
package report
