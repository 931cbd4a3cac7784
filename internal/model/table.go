package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a tidy table: rows identified by one or more key columns, with
// value columns registered in first-appearance order. Writing a row for an
// existing key replaces the row's cells but keeps its original position,
// matching keyed-dictionary accumulation where a duplicate key silently
// overwrites the earlier entry.
type Table struct {
	// keyColumns are the leading identifier columns (e.g. "election_id").
	keyColumns []string

	// columns are the value columns in first-appearance order.
	columns []string

	// columnSeen tracks which value columns have been registered.
	columnSeen map[string]bool

	// rows holds the table rows in insertion order.
	rows []*Row

	// rowIndex maps a composite key to the row's position.
	rowIndex map[string]int
}

// Row is a single table row. Cells are accessed by column name; columns
// the row does not carry render as empty.
type Row struct {
	// Key holds the row's key column values, aligned with the table's
	// key columns.
	Key []string

	table *Table
	cells map[string]any
}

// NewTable creates an empty Table with the given key columns.
func NewTable(keyColumns ...string) *Table {
	return &Table{
		keyColumns: keyColumns,
		columns:    make([]string, 0),
		columnSeen: make(map[string]bool),
		rows:       make([]*Row, 0),
		rowIndex:   make(map[string]int),
	}
}

// KeyColumns returns the table's key column names.
func (t *Table) KeyColumns() []string {
	return t.keyColumns
}

// Columns returns the value column names in first-appearance order.
func (t *Table) Columns() []string {
	return t.columns
}

// Header returns the full header row: key columns followed by value columns.
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.keyColumns)+len(t.columns))
	header = append(header, t.keyColumns...)
	header = append(header, t.columns...)
	return header
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the table rows in order.
func (t *Table) Rows() []*Row {
	return t.rows
}

// Put creates the row for the given key, or resets the existing row while
// keeping its position. The number of key values must match the table's
// key columns.
func (t *Table) Put(key ...string) *Row {
	row := t.Ensure(key...)
	row.cells = make(map[string]any)
	return row
}

// Ensure returns the row for the given key, creating an empty one at the
// end of the table if it does not exist. Existing cells are kept.
func (t *Table) Ensure(key ...string) *Row {
	if len(key) != len(t.keyColumns) {
		panic(fmt.Sprintf("table: got %d key values for %d key columns", len(key), len(t.keyColumns)))
	}

	ck := compositeKey(key)
	if i, ok := t.rowIndex[ck]; ok {
		return t.rows[i]
	}

	row := &Row{
		Key:   append([]string(nil), key...),
		table: t,
		cells: make(map[string]any),
	}
	t.rowIndex[ck] = len(t.rows)
	t.rows = append(t.rows, row)
	return row
}

// Lookup returns the row for the given key, if present.
func (t *Table) Lookup(key ...string) (*Row, bool) {
	i, ok := t.rowIndex[compositeKey(key)]
	if !ok {
		return nil, false
	}
	return t.rows[i], true
}

// registerColumn records a value column the first time it is seen.
func (t *Table) registerColumn(name string) {
	if !t.columnSeen[name] {
		t.columnSeen[name] = true
		t.columns = append(t.columns, name)
	}
}

// Set stores a cell value and registers the column if it is new.
func (r *Row) Set(column string, value any) {
	r.table.registerColumn(column)
	r.cells[column] = value
}

// Get returns the raw cell value and whether the row carries the column.
func (r *Row) Get(column string) (any, bool) {
	v, ok := r.cells[column]
	return v, ok
}

// Cell returns the rendered cell value for the column. Columns the row
// does not carry render as the empty string.
func (r *Row) Cell(column string) string {
	v, ok := r.cells[column]
	if !ok {
		return ""
	}
	return RenderCell(v)
}

// Record returns the full rendered row: key values followed by value
// columns in table column order.
func (r *Row) Record() []string {
	record := make([]string, 0, len(r.Key)+len(r.table.columns))
	record = append(record, r.Key...)
	for _, col := range r.table.columns {
		record = append(record, r.Cell(col))
	}
	return record
}

// RenderCell converts a decoded JSON value to its tabular text form.
// Nulls render as empty cells, numbers keep their source literal, and
// booleans render as "true"/"false".
func RenderCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		// Covers json.Number, preserving the source literal.
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// compositeKey joins key values into a single map key.
// The separator cannot appear in JSON scalar text decoded as a key value.
func compositeKey(key []string) string {
	return strings.Join(key, "\x1f")
}
