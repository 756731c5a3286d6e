// Package config loads bootcheck configuration.
//
// Values are layered, later layers winning:
//  1. Defaults()
//  2. an optional YAML file
//  3. BOOTCHECK_* environment variables
//  4. command-line flags (applied by the caller)
//
// Validate checks the result against an embedded CUE schema.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BOOTCHECK_"

// Backend names.
const (
	BackendClickHouse = "clickhouse"
	BackendSQLite     = "sqlite"
)

// Config holds every externalized setting.
type Config struct {
	Settings `yaml:",inline"`

	// Rows are written by every run. Only settable from the config file.
	Rows []bootstrap.Row `yaml:"rows"`
}

// Settings are the scalar options, each also settable from the environment.
type Settings struct {
	Backend string `yaml:"backend" env:"BACKEND"`

	// ClickHouse endpoint.
	Host        string        `yaml:"host" env:"HOST"`
	Port        int           `yaml:"port" env:"PORT"`
	Username    string        `yaml:"username" env:"USERNAME"`
	Password    string        `yaml:"password" env:"PASSWORD"`
	Protocol    string        `yaml:"protocol" env:"PROTOCOL"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"DIAL_TIMEOUT"`

	// Secure forces TLS. Ports 8443 and 9440 use TLS regardless.
	Secure bool `yaml:"secure" env:"SECURE"`

	// DataDir is the SQLite store directory.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	Namespace string `yaml:"namespace" env:"NAMESPACE"`
	Table     string `yaml:"table" env:"TABLE"`
	Engine    string `yaml:"engine" env:"ENGINE"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"`
}

// Defaults returns the configuration used when nothing is overridden:
// ClickHouse at localhost:8123 as user "default", writing test_db.test_table.
func Defaults() *Config {
	return &Config{
		Settings: Settings{
			Backend:     BackendClickHouse,
			Host:        "localhost",
			Port:        8123,
			Username:    "default",
			Protocol:    "auto",
			DialTimeout: 10 * time.Second,
			Namespace:   bootstrap.DefaultNamespace,
			Table:       bootstrap.DefaultTable,
			Engine:      bootstrap.DefaultEngine,
		},
		Rows: bootstrap.DefaultRows(),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and the process environment. It does not validate.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// load is Load with an explicit environment; nil means the process
// environment.
func load(path string, environ map[string]string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg.Settings, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("parse config %s: %v", path, typeErr.Errors)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Target returns the bootstrap target described by the config.
func (c *Config) Target() bootstrap.Target {
	schema := bootstrap.DefaultSchema(c.Table)
	if c.Engine != "" {
		schema.Engine = c.Engine
	}
	rows := make([]bootstrap.Row, len(c.Rows))
	copy(rows, c.Rows)
	return bootstrap.Target{
		Namespace: c.Namespace,
		Schema:    schema,
		Rows:      rows,
	}
}
