package log

import (
	"io"
	"log/slog"
)

// NewLogger creates a slog.Logger for electiontidy.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - verbose: if true, sets log level to Debug; otherwise Warn
//
// The returned logger carries an "app" attribute so log lines remain
// attributable when the tool runs inside larger data-pipeline wrappers.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(w, opts)
	return slog.New(handler).With("app", "electiontidy")
}
