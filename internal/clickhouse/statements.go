// Package clickhouse implements bootstrap.Backend on top of the official
// ClickHouse Go client.
//
// Every operation issues one literal statement; see the builders in this
// file for the exact text.
package clickhouse

import (
	"strconv"
	"strings"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

// CreateDatabase returns CREATE DATABASE IF NOT EXISTS <namespace>.
func CreateDatabase(namespace string) string {
	return "CREATE DATABASE IF NOT EXISTS " + namespace
}

// Use returns USE <namespace>.
func Use(namespace string) string {
	return "USE " + namespace
}

// CreateTable returns the CREATE TABLE IF NOT EXISTS statement for schema.
//
//	CREATE TABLE IF NOT EXISTS t (id UInt32, name String) ENGINE = MergeTree() ORDER BY id
func CreateTable(schema bootstrap.TableSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(schema.Name)
	b.WriteString(" (")
	for i, col := range schema.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Name)
		b.WriteByte(' ')
		b.WriteString(col.Type)
	}
	b.WriteString(") ENGINE = ")
	engine := schema.Engine
	if engine == "" {
		engine = bootstrap.DefaultEngine
	}
	b.WriteString(engine)
	b.WriteString(" ORDER BY ")
	b.WriteString(orderingKey(schema.OrderBy))
	return b.String()
}

// orderingKey renders ORDER BY arguments. MergeTree requires a key, so an
// empty key becomes tuple().
func orderingKey(cols []string) string {
	switch len(cols) {
	case 0:
		return "tuple()"
	case 1:
		return cols[0]
	default:
		return "(" + strings.Join(cols, ", ") + ")"
	}
}

// Insert returns a single INSERT ... VALUES statement for all rows.
func Insert(table string, rows []bootstrap.Row) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (id, name) VALUES ")
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		b.WriteString(strconv.FormatUint(uint64(r.ID), 10))
		b.WriteString(", ")
		b.WriteString(quoteString(r.Name))
		b.WriteByte(')')
	}
	return b.String()
}

// SelectAll returns SELECT * FROM <table>.
func SelectAll(table string) string {
	return "SELECT * FROM " + table
}

// Plan returns, in order, every statement a full run against target issues.
func Plan(target bootstrap.Target) []string {
	stmts := []string{
		CreateDatabase(target.Namespace),
		Use(target.Namespace),
		CreateTable(target.Schema),
	}
	if len(target.Rows) > 0 {
		stmts = append(stmts, Insert(target.Schema.Name, target.Rows))
	}
	return append(stmts, SelectAll(target.Schema.Name))
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteString renders s as a ClickHouse string literal.
func quoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}
