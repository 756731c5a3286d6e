package bootstrap

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	typePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\([A-Za-z0-9_, ()]*\))?$`)
)

// maxIdentLen keeps names well inside every backend's limit.
const maxIdentLen = 128

// ErrEmptyIdentifier is returned for empty namespace, table, or column names.
var ErrEmptyIdentifier = errors.New("identifier is empty")

// ValidateIdentifier checks that name can be spliced into a statement
// unquoted. Names must be NFC-normalized, start with an ASCII letter or
// underscore, and contain only ASCII letters, digits, and underscores.
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrEmptyIdentifier
	}
	if !norm.NFC.IsNormalString(name) {
		return fmt.Errorf("identifier %q is not NFC-normalized", name)
	}
	if len(name) > maxIdentLen {
		return fmt.Errorf("identifier %q exceeds %d bytes", name, maxIdentLen)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("malformed identifier %q", name)
	}
	return nil
}

// ValidateSchema checks the table name, every column name and type, the
// engine clause, and that each ordering key column is declared.
func ValidateSchema(schema TableSchema) error {
	if err := ValidateIdentifier(schema.Name); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if len(schema.Columns) == 0 {
		return fmt.Errorf("table %s: no columns", schema.Name)
	}
	declared := make(map[string]bool, len(schema.Columns))
	for i, col := range schema.Columns {
		if err := ValidateIdentifier(col.Name); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		if declared[col.Name] {
			return fmt.Errorf("column %s declared twice", col.Name)
		}
		if !typePattern.MatchString(col.Type) {
			return fmt.Errorf("column %s: malformed type %q", col.Name, col.Type)
		}
		declared[col.Name] = true
	}
	if schema.Engine != "" && !typePattern.MatchString(schema.Engine) {
		return fmt.Errorf("table %s: malformed engine %q", schema.Name, schema.Engine)
	}
	for _, key := range schema.OrderBy {
		if !declared[key] {
			return fmt.Errorf("ordering key %q is not a column", key)
		}
	}
	return nil
}
