package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_WrapsFailureAsConnectionError(t *testing.T) {
	_, err := Connect(context.Background(), failingConnect, "run-1")
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.ErrorIs(t, err, errRefused)
}

func TestConnect_NilBackend(t *testing.T) {
	connect := func(context.Context, string) (Backend, error) { return nil, nil }
	_, err := Connect(context.Background(), connect, "run-1")
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
}

func TestConnect_PassesRunID(t *testing.T) {
	var got string
	connect := func(_ context.Context, runID string) (Backend, error) {
		got = runID
		return newFakeBackend(), nil
	}
	_, err := Connect(context.Background(), connect, "run-42")
	require.NoError(t, err)
	assert.Equal(t, "run-42", got)
}

func TestEnsureNamespace_Idempotent(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()

	require.NoError(t, EnsureNamespace(ctx, b, "test_db"))
	require.NoError(t, EnsureNamespace(ctx, b, "test_db"))
	assert.Len(t, b.namespaces, 1)
}

func TestEnsureNamespace_MalformedNameNeverReachesBackend(t *testing.T) {
	b := newFakeBackend()

	err := EnsureNamespace(context.Background(), b, "test-db; DROP DATABASE x")
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Empty(t, b.calls)
}

func TestEnsureNamespace_BackendFailureIsSchemaError(t *testing.T) {
	b := newFakeBackend()
	b.failOn = "CreateNamespace"
	b.failErr = errors.New("Not enough privileges")

	err := EnsureNamespace(context.Background(), b, "test_db")
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), "Not enough privileges")
}

func TestSelectNamespace_Missing(t *testing.T) {
	err := SelectNamespace(context.Background(), newFakeBackend(), "nope")
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestEnsureTable_Idempotent(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	require.NoError(t, EnsureNamespace(ctx, b, "test_db"))
	require.NoError(t, SelectNamespace(ctx, b, "test_db"))

	require.NoError(t, EnsureTable(ctx, b, DefaultSchema("test_table")))
	require.NoError(t, EnsureTable(ctx, b, DefaultSchema("test_table")))
	assert.Len(t, b.tables, 1)
}

func TestEnsureTable_InvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema TableSchema
	}{
		{"empty name", TableSchema{Columns: []Column{{"id", "UInt32"}}}},
		{"no columns", TableSchema{Name: "t"}},
		{"duplicate column", TableSchema{Name: "t", Columns: []Column{{"id", "UInt32"}, {"id", "String"}}}},
		{"bad type", TableSchema{Name: "t", Columns: []Column{{"id", "UInt32; DROP"}}}},
		{"unknown ordering key", TableSchema{Name: "t", Columns: []Column{{"id", "UInt32"}}, OrderBy: []string{"ts"}}},
		{"bad engine", TableSchema{Name: "t", Columns: []Column{{"id", "UInt32"}}, Engine: "MergeTree() SETTINGS x=1; --"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			err := EnsureTable(context.Background(), b, tt.schema)
			require.Error(t, err)
			assert.True(t, IsSchemaError(err))
			assert.Empty(t, b.calls)
		})
	}
}

func TestEnsureTable_AcceptsParameterizedTypes(t *testing.T) {
	schema := TableSchema{
		Name: "events",
		Columns: []Column{
			{Name: "id", Type: "UInt64"},
			{Name: "label", Type: "LowCardinality(String)"},
			{Name: "price", Type: "Decimal(18, 4)"},
		},
		Engine:  "ReplacingMergeTree()",
		OrderBy: []string{"id"},
	}
	assert.NoError(t, ValidateSchema(schema))
}

func TestInsertRows_EmptyBatchIsNoop(t *testing.T) {
	b := newFakeBackend()
	require.NoError(t, InsertRows(context.Background(), b, "test_table", nil))
	assert.Empty(t, b.calls)
}

func TestInsertRows_FailureIsWriteError(t *testing.T) {
	b := newFakeBackend()
	b.failOn = "Insert"
	b.failErr = errors.New("table is read-only")

	err := InsertRows(context.Background(), b, "test_table", DefaultRows())
	require.Error(t, err)
	assert.True(t, IsWriteError(err))
	assert.False(t, IsSchemaError(err))
}

func TestQueryAll_FailureIsReadError(t *testing.T) {
	b := newFakeBackend()
	b.failOn = "SelectAll"
	b.failErr = errors.New("timeout")

	_, err := QueryAll(context.Background(), b, "test_table")
	require.Error(t, err)
	assert.True(t, IsReadError(err))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRead, kind)
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"test_db", "_private", "Table2", "a"}
	for _, name := range valid {
		assert.NoError(t, ValidateIdentifier(name), name)
	}

	invalid := []string{"", "2fast", "with space", "dash-name", "semi;colon", "café", "naïve"}
	for _, name := range invalid {
		assert.Error(t, ValidateIdentifier(name), name)
	}
}

func TestError_Format(t *testing.T) {
	err := &Error{Kind: KindWrite, Op: "insert into t", Err: errors.New("boom")}
	assert.Equal(t, "WRITE_ERROR: insert into t: boom", err.Error())

	bare := &Error{Kind: KindRead, Op: "select from t"}
	assert.Equal(t, "READ_ERROR: select from t", bare.Error())
}

func TestKindOf_NotAFlowError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsConnectionError(nil))
}
