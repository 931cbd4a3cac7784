package report

import (
	"io"

	"github.com/ballotops/electiontidy/internal/model"
)

// Writer defines the interface for table output.
// Implementations write a tidy table in some format to their destination.
type Writer interface {
	// WriteTable outputs the table to the configured destination.
	// Returns the number of bytes written and any error encountered.
	WriteTable(table *model.Table) (int, error)
}

// MultiWriter writes a table to multiple Writers in sequence.
// Useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteTable outputs the table to all configured Writers.
// Returns the total bytes written; stops on the first error encountered.
func (m *MultiWriter) WriteTable(table *model.Table) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteTable(table)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
