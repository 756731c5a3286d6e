package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

var _ bootstrap.Backend = (*Store)(nil)

// columnDef maps a ClickHouse column type onto an SQLite column definition.
// Unsigned and fixed-width types get range CHECKs so that out-of-range
// writes fail the way they would on ClickHouse.
func columnDef(col bootstrap.Column) (string, error) {
	name := quoteIdent(col.Name)
	between := func(lo, hi string) string {
		return fmt.Sprintf("%s INTEGER NOT NULL CHECK (%s BETWEEN %s AND %s)", name, name, lo, hi)
	}

	switch col.Type {
	case "UInt8":
		return between("0", "255"), nil
	case "UInt16":
		return between("0", "65535"), nil
	case "UInt32":
		return between("0", "4294967295"), nil
	case "UInt64":
		return fmt.Sprintf("%s INTEGER NOT NULL CHECK (%s >= 0)", name, name), nil
	case "Int8":
		return between("-128", "127"), nil
	case "Int16":
		return between("-32768", "32767"), nil
	case "Int32":
		return between("-2147483648", "2147483647"), nil
	case "Int64":
		return name + " INTEGER NOT NULL", nil
	case "Float32", "Float64":
		return name + " REAL NOT NULL", nil
	case "Bool":
		return fmt.Sprintf("%s INTEGER NOT NULL CHECK (%s IN (0, 1))", name, name), nil
	case "String":
		return name + " TEXT NOT NULL", nil
	default:
		return "", fmt.Errorf("unsupported column type %q for column %s", col.Type, col.Name)
	}
}

// qualified returns "namespace"."table" for the selected namespace.
func (s *Store) qualified(table string) (string, error) {
	if s.current == "" {
		return "", ErrNoNamespace
	}
	return quoteIdent(s.current) + "." + quoteIdent(table), nil
}

// CreateTable creates the table in the selected namespace if it does not
// exist, plus an index over the ordering key. An existing table is left
// exactly as it is, whatever its columns.
func (s *Store) CreateTable(ctx context.Context, schema bootstrap.TableSchema) error {
	target, err := s.qualified(schema.Name)
	if err != nil {
		return fmt.Errorf("create table %s: %w", schema.Name, err)
	}

	defs := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		def, err := columnDef(col)
		if err != nil {
			return fmt.Errorf("create table %s: %w", schema.Name, err)
		}
		defs[i] = def
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create table %s: begin tx: %w", schema.Name, err)
	}
	defer tx.Rollback() // No-op if committed

	var existing int
	err = tx.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.sqlite_master WHERE type = 'table' AND name = ?",
		quoteIdent(s.current)), schema.Name).Scan(&existing)
	if err != nil {
		return fmt.Errorf("create table %s: lookup: %w", schema.Name, err)
	}
	if existing > 0 {
		return nil
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", target, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", schema.Name, err)
	}

	if len(schema.OrderBy) > 0 {
		keys := make([]string, len(schema.OrderBy))
		for i, k := range schema.OrderBy {
			keys[i] = quoteIdent(k)
		}
		index := quoteIdent(s.current) + "." + quoteIdent(schema.Name+"_order_key")
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			index, quoteIdent(schema.Name), strings.Join(keys, ", "))
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: ordering key: %w", schema.Name, err)
		}
	}

	engine := schema.Engine
	if engine == "" {
		engine = bootstrap.DefaultEngine
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tables (namespace, name, engine, order_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, name) DO NOTHING
	`, s.current, schema.Name, engine, strings.Join(schema.OrderBy, ","))
	if err != nil {
		return fmt.Errorf("create table %s: catalog: %w", schema.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create table %s: commit: %w", schema.Name, err)
	}
	return nil
}

// Insert appends rows in one multi-row INSERT. Either every row lands or
// none does.
func (s *Store) Insert(ctx context.Context, table string, rows []bootstrap.Row) error {
	target, err := s.qualified(table)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(rows))
	args := make([]any, 0, 2*len(rows))
	for i, r := range rows {
		placeholders[i] = "(?, ?)"
		args = append(args, int64(r.ID), r.Name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert into %s: begin tx: %w", table, err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`INSERT INTO %s ("id", "name") VALUES %s`, target, strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert into %s: commit: %w", table, err)
	}
	return nil
}

// SelectAll returns every row of table in insertion order.
// Returns an empty slice (not nil) for an empty table.
func (s *Store) SelectAll(ctx context.Context, table string) ([]bootstrap.Row, error) {
	target, err := s.qualified(table)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid ASC", target))
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	out := []bootstrap.Row{}
	for rows.Next() {
		var r bootstrap.Row
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
