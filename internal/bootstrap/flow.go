package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/roach88/bootcheck/internal/bootstrap"

// Step names, in execution order.
const (
	StepConnect         = "connect"
	StepEnsureNamespace = "ensure_namespace"
	StepSelectNamespace = "select_namespace"
	StepEnsureTable     = "ensure_table"
	StepInsertRows      = "insert_rows"
	StepQueryAll        = "query_all"
)

// Flow runs the bootstrap-and-verify sequence against one target.
type Flow struct {
	// Connect opens the backend. Required.
	Connect ConnectFunc

	// Target is the namespace, table, and rows to write.
	Target Target

	// IDs generates run IDs. If nil, defaults to UUIDv7Generator.
	IDs RunIDGenerator

	// Tracer records a span per step. If nil, the global provider is used.
	Tracer trace.Tracer

	// Logger receives step logs. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string   `json:"run_id"`
	Namespace   string   `json:"namespace"`
	Table       string   `json:"table"`
	RowsWritten int      `json:"rows_written"`
	Rows        []Row    `json:"rows"`
	Steps       []string `json:"steps"`
}

// Run executes Connect, EnsureNamespace, SelectNamespace, EnsureTable,
// InsertRows, and QueryAll in order. The first failure aborts the rest and
// is returned; the backend is closed on every path.
func (f *Flow) Run(ctx context.Context) (*Result, error) {
	t := f.Target
	return f.execute(ctx, "bootstrap.run", func(ctx context.Context, r *run) error {
		if err := r.step(ctx, StepEnsureNamespace, func(ctx context.Context) error {
			return EnsureNamespace(ctx, r.backend, t.Namespace)
		}); err != nil {
			return err
		}
		if err := r.step(ctx, StepSelectNamespace, func(ctx context.Context) error {
			return SelectNamespace(ctx, r.backend, t.Namespace)
		}); err != nil {
			return err
		}
		if err := r.step(ctx, StepEnsureTable, func(ctx context.Context) error {
			return EnsureTable(ctx, r.backend, t.Schema)
		}); err != nil {
			return err
		}
		if err := r.step(ctx, StepInsertRows, func(ctx context.Context) error {
			if err := InsertRows(ctx, r.backend, t.Schema.Name, t.Rows); err != nil {
				return err
			}
			r.result.RowsWritten = len(t.Rows)
			return nil
		}); err != nil {
			return err
		}
		return r.queryAll(ctx)
	})
}

// Readback executes Connect, SelectNamespace, and QueryAll without writing.
func (f *Flow) Readback(ctx context.Context) (*Result, error) {
	t := f.Target
	return f.execute(ctx, "bootstrap.readback", func(ctx context.Context, r *run) error {
		if err := r.step(ctx, StepSelectNamespace, func(ctx context.Context) error {
			return SelectNamespace(ctx, r.backend, t.Namespace)
		}); err != nil {
			return err
		}
		return r.queryAll(ctx)
	})
}

func (f *Flow) execute(ctx context.Context, spanName string, body func(context.Context, *run) error) (*Result, error) {
	if f.Connect == nil {
		return nil, newError(KindConnection, "connect", errors.New("no connect function configured"))
	}

	ids := f.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	tracer := f.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	runID := ids.Generate()
	logger = logger.With("run_id", runID)

	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("bootstrap.run_id", runID),
		attribute.String("bootstrap.namespace", f.Target.Namespace),
		attribute.String("bootstrap.table", f.Target.Schema.Name),
	))
	defer span.End()

	r := &run{
		tracer: tracer,
		logger: logger,
		result: &Result{
			RunID:     runID,
			Namespace: f.Target.Namespace,
			Table:     f.Target.Schema.Name,
			Steps:     []string{},
		},
	}

	err := r.step(ctx, StepConnect, func(ctx context.Context) error {
		b, err := Connect(ctx, f.Connect, runID)
		if err != nil {
			return err
		}
		r.backend = b
		return nil
	})
	if err == nil {
		defer r.close()
		err = body(ctx, r)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.Info("run completed", "steps", len(r.result.Steps), "rows_read", len(r.result.Rows))
	return r.result, nil
}

// run holds the state of a single Flow execution.
type run struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	backend Backend
	result  *Result
}

func (r *run) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "bootstrap."+name)
	defer span.End()

	start := time.Now()
	r.logger.Debug("step starting", "step", name)
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("step failed", "step", name, "error", err)
		return err
	}
	r.result.Steps = append(r.result.Steps, name)
	r.logger.Info("step completed", "step", name, "duration", time.Since(start))
	return nil
}

func (r *run) queryAll(ctx context.Context) error {
	return r.step(ctx, StepQueryAll, func(ctx context.Context) error {
		rows, err := QueryAll(ctx, r.backend, r.result.Table)
		if err != nil {
			return err
		}
		r.result.Rows = rows
		return nil
	})
}

func (r *run) close() {
	if err := r.backend.Close(); err != nil {
		r.logger.Error("error closing backend", "error", err)
	}
}
