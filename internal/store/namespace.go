package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNamespaceNotFound is returned when selecting a namespace that was never
// created.
var ErrNamespaceNotFound = errors.New("namespace does not exist")

// ErrNoNamespace is returned by table operations before UseNamespace.
var ErrNoNamespace = errors.New("no namespace selected")

// ErrNamespaceCaseConflict is returned when a namespace differs from an
// existing one only by case. SQLite schema names are case-insensitive.
var ErrNamespaceCaseConflict = errors.New("namespace differs from an existing namespace only by case")

// reserved are SQLite's built-in schema names; they cannot be attached.
var reserved = map[string]bool{"main": true, "temp": true}

// CreateNamespace records the namespace in the catalog and attaches its
// database file. A namespace that already exists is left untouched.
func (s *Store) CreateNamespace(ctx context.Context, name string) error {
	if reserved[strings.ToLower(name)] {
		return fmt.Errorf("create namespace %s: reserved name", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create namespace %s: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT name FROM namespaces WHERE name = ? COLLATE NOCASE
	`, name).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO namespaces (name, file)
			VALUES (?, ?)
		`, name, name+".db"); err != nil {
			return fmt.Errorf("create namespace %s: %w", name, err)
		}
	case err != nil:
		return fmt.Errorf("create namespace %s: lookup: %w", name, err)
	case existing != name:
		return fmt.Errorf("create namespace %s: %w (%s)", name, ErrNamespaceCaseConflict, existing)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create namespace %s: commit: %w", name, err)
	}

	// ATTACH is not allowed inside a transaction.
	return s.attach(ctx, name)
}

// UseNamespace selects the namespace for subsequent table operations.
func (s *Store) UseNamespace(ctx context.Context, name string) error {
	var file string
	err := s.db.QueryRowContext(ctx, `
		SELECT file FROM namespaces WHERE name = ?
	`, name).Scan(&file)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("use %s: %w", name, ErrNamespaceNotFound)
	}
	if err != nil {
		return fmt.Errorf("use %s: %w", name, err)
	}

	if err := s.attach(ctx, name); err != nil {
		return err
	}
	s.current = name
	return nil
}

// Namespaces lists catalogued namespaces by name.
func (s *Store) Namespaces(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM namespaces ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query namespaces: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate namespaces: %w", err)
	}
	return names, nil
}

// attach attaches the namespace file unless this connection already has it.
func (s *Store) attach(ctx context.Context, name string) error {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pragma_database_list WHERE name = ? COLLATE NOCASE
	`, name).Scan(&n)
	if err != nil {
		return fmt.Errorf("attach %s: list databases: %w", name, err)
	}
	if n > 0 {
		return nil
	}

	path := filepath.Join(s.dir, name+".db")
	if _, err := s.db.ExecContext(ctx, "ATTACH DATABASE ? AS "+quoteIdent(name), path); err != nil {
		return fmt.Errorf("attach %s: %w", name, err)
	}
	return nil
}
