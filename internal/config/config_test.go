package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bootcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, BackendClickHouse, cfg.Backend)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8123, cfg.Port)
	assert.Equal(t, "default", cfg.Username)
	assert.Equal(t, "test_db", cfg.Namespace)
	assert.Equal(t, "test_table", cfg.Table)
	assert.Equal(t, bootstrap.DefaultRows(), cfg.Rows)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileNoEnv(t *testing.T) {
	cfg, err := load("", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
host: ch.internal
port: 9000
protocol: native
password: s3cret
dial_timeout: 3s
secure: true
namespace: analytics
table: people
rows:
  - id: 10
    name: Carol
`)

	cfg, err := load(path, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "ch.internal", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "native", cfg.Protocol)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 3*time.Second, cfg.DialTimeout)
	assert.True(t, cfg.Secure)
	assert.Equal(t, "analytics", cfg.Namespace)
	assert.Equal(t, []bootstrap.Row{{ID: 10, Name: "Carol"}}, cfg.Rows)

	// Untouched keys keep their defaults.
	assert.Equal(t, "default", cfg.Username)
	assert.Equal(t, "MergeTree()", cfg.Engine)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "host: from-file\nport: 9000\n")

	cfg, err := load(path, map[string]string{
		"BOOTCHECK_HOST":     "from-env",
		"BOOTCHECK_BACKEND":  "sqlite",
		"BOOTCHECK_DATA_DIR": "/var/lib/bootcheck",
		"HOST":               "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/var/lib/bootcheck", cfg.DataDir)
	assert.Equal(t, bootstrap.DefaultRows(), cfg.Rows)
}

func TestLoad_BadEnvValue(t *testing.T) {
	_, err := load("", map[string]string{"BOOTCHECK_PORT": "eighty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [not, a, port]\n")

	_, err := load(path, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Backend = "mysql" }, "backend"},
		{"port zero", func(c *Config) { c.Port = 0 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"empty host", func(c *Config) { c.Host = "" }, "host"},
		{"bad protocol", func(c *Config) { c.Protocol = "grpc" }, "protocol"},
		{"malformed namespace", func(c *Config) { c.Namespace = "test-db" }, "namespace"},
		{"malformed table", func(c *Config) { c.Table = "1table" }, "table"},
		{"sqlite without data dir", func(c *Config) { c.Backend = BackendSQLite }, "data_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_SQLiteWithDataDir(t *testing.T) {
	cfg := Defaults()
	cfg.Backend = BackendSQLite
	cfg.DataDir = t.TempDir()
	assert.NoError(t, cfg.Validate())
}

func TestTarget(t *testing.T) {
	cfg := Defaults()
	cfg.Engine = "ReplacingMergeTree()"

	target := cfg.Target()
	assert.Equal(t, "test_db", target.Namespace)
	assert.Equal(t, "test_table", target.Schema.Name)
	assert.Equal(t, "ReplacingMergeTree()", target.Schema.Engine)
	assert.Equal(t, []string{"id"}, target.Schema.OrderBy)
	assert.Equal(t, bootstrap.DefaultRows(), target.Rows)

	// The target owns its rows.
	target.Rows[0].Name = "changed"
	assert.Equal(t, "Alice", cfg.Rows[0].Name)
}
