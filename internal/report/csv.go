package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ballotops/electiontidy/internal/model"
)

// CSVWriter outputs tidy tables as delimited text with a header row.
// Key columns are the leading columns, followed by value columns in the
// table's column order. Cells missing from a row are written empty.
type CSVWriter struct {
	baseWriter

	// delimiter is the field separator. Defaults to a comma.
	delimiter rune
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithDelimiter sets the field separator.
func WithDelimiter(delimiter rune) CSVWriterOption {
	return func(w *CSVWriter) {
		w.delimiter = delimiter
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		delimiter:  ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteTable outputs the table: one header row, then one record per row.
// The whole table is rendered before any byte reaches the destination, so
// a failing row cannot leave a truncated file behind.
func (w *CSVWriter) WriteTable(table *model.Table) (int, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	cw.Comma = w.delimiter

	if err := cw.Write(table.Header()); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, row := range table.Rows() {
		if err := cw.Write(row.Record()); err != nil {
			return 0, fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return io.WriteString(w.output, sb.String())
}
