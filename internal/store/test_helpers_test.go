package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore opens a store in a fresh temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestNamespace creates and selects a namespace.
func createTestNamespace(t *testing.T, s *Store, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateNamespace(ctx, name))
	require.NoError(t, s.UseNamespace(ctx, name))
}
