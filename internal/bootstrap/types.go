package bootstrap

import (
	"context"
	"fmt"
)

// Default target values.
const (
	DefaultNamespace = "test_db"
	DefaultTable     = "test_table"
	DefaultEngine    = "MergeTree()"
)

// Row is a single (id, name) tuple.
// IDs are not unique; the flow never enforces uniqueness.
type Row struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// String renders the row as a tuple, e.g. (1, 'Alice').
func (r Row) String() string {
	return fmt.Sprintf("(%d, %s)", r.ID, quoteText(r.Name))
}

// Column is a named, typed column. Type is a ClickHouse type name.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableSchema describes a table to create if absent.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`

	// Engine is the storage engine clause, e.g. "MergeTree()".
	Engine string `json:"engine"`

	// OrderBy lists the ordering key columns (physical sort order).
	OrderBy []string `json:"order_by"`
}

// DefaultSchema returns the {id UInt32, name String} ORDER BY id schema
// for the named table.
func DefaultSchema(table string) TableSchema {
	return TableSchema{
		Name: table,
		Columns: []Column{
			{Name: "id", Type: "UInt32"},
			{Name: "name", Type: "String"},
		},
		Engine:  DefaultEngine,
		OrderBy: []string{"id"},
	}
}

// DefaultRows returns the rows written by a default run.
func DefaultRows() []Row {
	return []Row{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	}
}

// Target is everything a flow run writes to and reads from.
type Target struct {
	Namespace string
	Schema    TableSchema
	Rows      []Row
}

// DefaultTarget returns the test_db.test_table target with the default rows.
func DefaultTarget() Target {
	return Target{
		Namespace: DefaultNamespace,
		Schema:    DefaultSchema(DefaultTable),
		Rows:      DefaultRows(),
	}
}

// Backend is an open session against a database engine.
//
// Implementations translate each operation into whatever their engine
// needs; they return raw errors and leave classification to this package.
// A Backend is owned by a single flow run and is not safe for concurrent use.
type Backend interface {
	// CreateNamespace creates the namespace if it does not exist.
	CreateNamespace(ctx context.Context, name string) error

	// UseNamespace scopes subsequent statements to the namespace.
	// Fails if the namespace does not exist.
	UseNamespace(ctx context.Context, name string) error

	// CreateTable creates the table if it does not exist. An existing table
	// is left as-is regardless of its columns.
	CreateTable(ctx context.Context, schema TableSchema) error

	// Insert appends rows in a single statement.
	Insert(ctx context.Context, table string, rows []Row) error

	// SelectAll returns every visible row in the engine's default order.
	SelectAll(ctx context.Context, table string) ([]Row, error)

	// Close releases the session.
	Close() error
}

// ConnectFunc opens a Backend. runID identifies the flow run and may be
// used by the backend for session and query correlation.
type ConnectFunc func(ctx context.Context, runID string) (Backend, error)
