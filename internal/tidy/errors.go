package tidy

import "errors"

// Lookup errors returned by the tidy transforms. All of them abort the
// run; callers can use errors.Is() to classify failures.
var (
	// ErrMissingField is returned when a result lacks a required field,
	// such as election_id or a nested locale key.
	ErrMissingField = errors.New("missing field")

	// ErrNotObject is returned when a field expected to hold a nested
	// mapping holds something else.
	ErrNotObject = errors.New("field is not an object")

	// ErrNotList is returned when voting_methods holds a non-list value.
	ErrNotList = errors.New("field is not a list")
)
