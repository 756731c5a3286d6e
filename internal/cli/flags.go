package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/bootcheck/internal/config"
)

// ConfigFlags are command-line overrides for config values. Only flags the
// user actually set are applied.
type ConfigFlags struct {
	Backend   string
	Host      string
	Port      int
	User      string
	Password  string
	Protocol  string
	Secure    bool
	Namespace string
	Table     string
	DataDir   string
}

func (f *ConfigFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Backend, "backend", "", "backend to use (clickhouse|sqlite)")
	fs.StringVar(&f.Host, "host", "", "ClickHouse host")
	fs.IntVar(&f.Port, "port", 0, "ClickHouse port")
	fs.StringVar(&f.User, "user", "", "ClickHouse username")
	fs.StringVar(&f.Password, "password", "", "ClickHouse password")
	fs.StringVar(&f.Protocol, "protocol", "", "wire protocol (auto|native|http)")
	fs.BoolVar(&f.Secure, "secure", false, "connect over TLS")
	fs.StringVar(&f.Namespace, "namespace", "", "database to create and use")
	fs.StringVar(&f.Table, "table", "", "table to create and fill")
	fs.StringVar(&f.DataDir, "data-dir", "", "SQLite store directory (sqlite backend)")
}

func (f *ConfigFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("backend", &cfg.Backend, f.Backend)
	set("host", &cfg.Host, f.Host)
	set("user", &cfg.Username, f.User)
	set("password", &cfg.Password, f.Password)
	set("protocol", &cfg.Protocol, f.Protocol)
	set("namespace", &cfg.Namespace, f.Namespace)
	set("table", &cfg.Table, f.Table)
	set("data-dir", &cfg.DataDir, f.DataDir)
	if fs.Changed("port") {
		cfg.Port = f.Port
	}
	if fs.Changed("secure") {
		cfg.Secure = f.Secure
	}
}

// loadConfig layers file, environment, and flags, then validates.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	opts.Overrides.apply(cmd.Flags(), cfg)

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}
