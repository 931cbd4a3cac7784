package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ballotops/electiontidy/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "electiontidy.db"

// RunDB provides SQLite-based storage for flatten run history.
// It manages the connection and provides methods for saving and listing runs.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs record one flatten execution per row
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_path TEXT NOT NULL,
		locale TEXT NOT NULL,
		election_rows INTEGER NOT NULL DEFAULT 0,
		method_rows INTEGER NOT NULL DEFAULT 0,
		elections_output TEXT,
		methods_output TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_input ON runs(input_path);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored flatten run.
type RunRecord struct {
	ID              int64
	InputPath       string
	Locale          string
	ElectionRows    int
	MethodRows      int
	ElectionsOutput string
	MethodsOutput   string
	Duration        time.Duration
	Status          string
	ErrorMessage    string
	Timestamp       time.Time
}

// Run statuses stored in the database.
const (
	// StatusComplete marks a run that produced both tables.
	StatusComplete = "complete"

	// StatusFailed marks a run aborted by a lookup or I/O failure.
	StatusFailed = "failed"
)

// SaveRun persists the outcome of a flatten run.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	status := StatusComplete
	if run.Failed() {
		status = StatusFailed
	}

	var electionRows, methodRows int
	if run.Elections != nil {
		electionRows = run.Elections.Len()
	}
	if run.Methods != nil {
		methodRows = run.Methods.Len()
	}

	query := `
	INSERT INTO runs (input_path, locale, election_rows, method_rows, elections_output, methods_output, duration_ms, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		run.InputPath,
		run.Locale,
		electionRows,
		methodRows,
		run.ElectionsOutput,
		run.MethodsOutput,
		run.Duration.Milliseconds(),
		status,
		run.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of 0 or less returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `
	SELECT id, input_path, locale, election_rows, method_rows, elections_output, methods_output, duration_ms, status, error, timestamp
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return rdb.queryRuns(ctx, query, args...)
}

// ListRunsByInput returns the most recent runs for one input path, newest first.
func (rdb *RunDB) ListRunsByInput(ctx context.Context, inputPath string, limit int) ([]*RunRecord, error) {
	query := `
	SELECT id, input_path, locale, election_rows, method_rows, elections_output, methods_output, duration_ms, status, error, timestamp
	FROM runs
	WHERE input_path = ?
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{inputPath}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return rdb.queryRuns(ctx, query, args...)
}

// queryRuns executes a run query and scans the result rows.
func (rdb *RunDB) queryRuns(ctx context.Context, query string, args ...any) ([]*RunRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	records := make([]*RunRecord, 0)
	for rows.Next() {
		var rec RunRecord
		var durationMS int64
		var errorMessage sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.InputPath,
			&rec.Locale,
			&rec.ElectionRows,
			&rec.MethodRows,
			&rec.ElectionsOutput,
			&rec.MethodsOutput,
			&durationMS,
			&rec.Status,
			&errorMessage,
			&rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.ErrorMessage = errorMessage.String
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}
