package model

import "time"

// Run carries the state of one flatten run through the pipeline. Each
// step reads what earlier steps produced and fills in its own part.
type Run struct {
	// InputPath is the raw JSON export file being flattened.
	InputPath string

	// Locale is the canonical locale key (e.g. "en_US") used to extract
	// localized election names.
	Locale string

	// Pages holds the decoded raw pages.
	Pages []*Page

	// Results is the ordered concatenation of all page results.
	Results []*Record

	// Elections is the per-election output table, one row per election_id.
	Elections *Table

	// Methods is the per-(election, method position) output table.
	Methods *Table

	// ElectionsOutput is the path the elections table was written to.
	ElectionsOutput string

	// MethodsOutput is the path the voting-methods table was written to.
	MethodsOutput string

	// SummaryOutput is the path of the markdown summary, if one was written.
	SummaryOutput string

	// PerformedSteps records the names of executed pipeline steps in order.
	PerformedSteps []string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Duration is the total run time, set when the pipeline finishes.
	Duration time.Duration

	// Error holds the first step failure, if any.
	Error error

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string
}

// NewRun creates a Run for the given input file.
func NewRun(inputPath string) *Run {
	return &Run{
		InputPath: inputPath,
		StartedAt: time.Now(),
	}
}

// Failed reports whether the run recorded an error.
func (r *Run) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
