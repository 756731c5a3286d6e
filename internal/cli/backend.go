package cli

import (
	"context"

	"github.com/roach88/bootcheck/internal/bootstrap"
	"github.com/roach88/bootcheck/internal/clickhouse"
	"github.com/roach88/bootcheck/internal/config"
	"github.com/roach88/bootcheck/internal/store"
)

// connectFunc returns the ConnectFunc for the configured backend.
func connectFunc(cfg *config.Config) bootstrap.ConnectFunc {
	if cfg.Backend == config.BackendSQLite {
		dir := cfg.DataDir
		return func(context.Context, string) (bootstrap.Backend, error) {
			s, err := store.Open(dir)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
	}

	opts := clickhouse.Options{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Protocol:    clickhouse.Protocol(cfg.Protocol),
		DialTimeout: cfg.DialTimeout,
		Secure:      cfg.Secure,
	}
	return func(ctx context.Context, runID string) (bootstrap.Backend, error) {
		b, err := clickhouse.Connect(ctx, opts, runID)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}
