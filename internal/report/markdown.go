package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/ballotops/electiontidy/internal/model"
)

// MarkdownWriter outputs a run summary in Markdown format.
// The summary covers the input file, timing, and the shape of both
// output tables. It is meant for documentation and sharing, not as a
// machine-readable artifact.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRun outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteRun(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeTableSection(md, "Elections Table", run.Elections, run.ElectionsOutput)
	w.writeTableSection(md, "Voting Methods Table", run.Methods, run.MethodsOutput)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Election Tidy Run")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Input", "`" + run.InputPath + "`"},
			{"Locale", run.Locale},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration.String()},
			{"Results", strconv.Itoa(len(run.Results))},
			{"Status", w.statusText(run)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on run state.
func (w *MarkdownWriter) statusText(run *model.Run) string {
	if run.Failed() {
		return "Failed - " + run.ErrorMessage
	}
	return "Complete"
}

// writeTableSection writes one output table's shape and column listing.
func (w *MarkdownWriter) writeTableSection(md *markdown.Markdown, title string, table *model.Table, output string) {
	md.H2(title)
	md.PlainText("")

	if table == nil {
		md.PlainText("Not produced.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Output", "`" + output + "`"},
			{"Rows", strconv.Itoa(table.Len())},
			{"Key columns", codeList(table.KeyColumns())},
			{"Columns", codeList(table.Columns())},
		},
	})
	md.PlainText("")
}

// codeList renders column names as a comma-separated list of code spans.
func codeList(names []string) string {
	if len(names) == 0 {
		return "-"
	}

	spans := make([]string, 0, len(names))
	for _, name := range names {
		spans = append(spans, "`"+name+"`")
	}
	return strings.Join(spans, ", ")
}
