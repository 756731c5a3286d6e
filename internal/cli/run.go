package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/bootcheck/internal/bootstrap"
	"github.com/roach88/bootcheck/internal/config"
	"github.com/roach88/bootcheck/internal/telemetry"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the database and table, insert rows, and read them back",
		Long: `Run the full bootstrap-and-verify flow:

  connect → create database → use database → create table → insert → select

Schema steps are create-if-absent. Rows are appended on every run, so
running twice leaves each row in the table twice. The first failing step
aborts the run with exit code 1.

Example:
  bootcheck run
  bootcheck run --host ch.internal --port 9000 --namespace analytics
  bootcheck run --backend sqlite --data-dir ./data --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlow(rootOpts, cmd, (*bootstrap.Flow).Run)
		},
	}

	return cmd
}

// runFlow wires config, logging, tracing, and the backend around one flow
// method, then reports its result.
func runFlow(opts *RootOptions, cmd *cobra.Command, method func(*bootstrap.Flow, context.Context) (*bootstrap.Result, error)) error {
	setupLogging(opts.Verbose, cmd.ErrOrStderr())

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint, Version)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up tracing", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error flushing traces", "error", err)
		}
	}()

	slog.Info("starting flow",
		"command", cmd.Name(),
		"backend", cfg.Backend,
		"endpoint", endpoint(cfg),
		"namespace", cfg.Namespace,
		"table", cfg.Table,
	)

	flow := &bootstrap.Flow{
		Connect: connectFunc(cfg),
		Target:  cfg.Target(),
		IDs:     opts.IDs,
	}
	result, err := method(flow, ctx)
	if err != nil {
		return WrapExitError(ExitFailure, cmd.Name()+" failed", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	return formatter.Rows(result)
}

// setupLogging installs a text slog handler on w; debug level when verbose.
func setupLogging(verbose bool, w io.Writer) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func endpoint(cfg *config.Config) string {
	if cfg.Backend == config.BackendSQLite {
		return cfg.DataDir
	}
	return cfg.Host
}
