// Package tidy implements the flattening core: it reshapes raw nested
// election result records into two tidy tables, one row per election and
// one row per (election, voting-method position).
//
// The transforms are total over the result sequence and independent of
// each other. Lookups into nested structures are unguarded on purpose:
// a missing locale key or a missing sub-mapping aborts the whole run
// rather than being silently tolerated. Duplicate election IDs are not
// detected; the last occurrence wins in every per-id table.
package tidy
