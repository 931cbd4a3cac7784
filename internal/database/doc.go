// Package database provides SQLite-based storage for flatten run history.
// Saved runs record what was flattened, where the tables went, and how
// the run ended, so past runs can be listed and audited later.
package database
