package bootstrap

import (
	"context"
	"fmt"
)

// Connect opens a backend session. Any failure is a connection error.
func Connect(ctx context.Context, connect ConnectFunc, runID string) (Backend, error) {
	b, err := connect(ctx, runID)
	if err != nil {
		return nil, newError(KindConnection, "connect", err)
	}
	if b == nil {
		return nil, newError(KindConnection, "connect", fmt.Errorf("backend is nil"))
	}
	return b, nil
}

// EnsureNamespace creates the namespace if absent. Malformed names are
// rejected before anything is sent to the backend.
func EnsureNamespace(ctx context.Context, b Backend, name string) error {
	op := "ensure namespace " + name
	if err := ValidateIdentifier(name); err != nil {
		return newError(KindSchema, op, err)
	}
	if err := b.CreateNamespace(ctx, name); err != nil {
		return newError(KindSchema, op, err)
	}
	return nil
}

// SelectNamespace scopes subsequent operations to the namespace.
func SelectNamespace(ctx context.Context, b Backend, name string) error {
	op := "select namespace " + name
	if err := ValidateIdentifier(name); err != nil {
		return newError(KindSchema, op, err)
	}
	if err := b.UseNamespace(ctx, name); err != nil {
		return newError(KindSchema, op, err)
	}
	return nil
}

// EnsureTable creates the table if absent. It does not check whether an
// existing table matches schema.
func EnsureTable(ctx context.Context, b Backend, schema TableSchema) error {
	op := "ensure table " + schema.Name
	if err := ValidateSchema(schema); err != nil {
		return newError(KindSchema, op, err)
	}
	if err := b.CreateTable(ctx, schema); err != nil {
		return newError(KindSchema, op, err)
	}
	return nil
}

// InsertRows appends rows to table in one statement. An empty batch is a
// no-op.
func InsertRows(ctx context.Context, b Backend, table string, rows []Row) error {
	op := "insert into " + table
	if err := ValidateIdentifier(table); err != nil {
		return newError(KindWrite, op, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := b.Insert(ctx, table, rows); err != nil {
		return newError(KindWrite, op, err)
	}
	return nil
}

// QueryAll reads back every visible row of table.
func QueryAll(ctx context.Context, b Backend, table string) ([]Row, error) {
	op := "select from " + table
	if err := ValidateIdentifier(table); err != nil {
		return nil, newError(KindRead, op, err)
	}
	rows, err := b.SelectAll(ctx, table)
	if err != nil {
		return nil, newError(KindRead, op, err)
	}
	return rows, nil
}
