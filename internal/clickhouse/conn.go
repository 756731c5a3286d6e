package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/roach88/bootcheck/internal/bootstrap"
)

// Protocol selects the ClickHouse wire protocol.
type Protocol string

const (
	// ProtocolAuto picks HTTP for the standard HTTP ports (8123, 8443) and
	// native otherwise. The standard secure ports (8443, 9440) also turn
	// on TLS.
	ProtocolAuto   Protocol = "auto"
	ProtocolNative Protocol = "native"
	ProtocolHTTP   Protocol = "http"
)

// Options configures a ClickHouse connection.
type Options struct {
	Host        string
	Port        int
	Username    string
	Password    string
	Protocol    Protocol
	DialTimeout time.Duration

	// Secure forces TLS on any port.
	Secure bool
}

// Addr returns host:port.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// wireProtocol resolves ProtocolAuto against the port.
func (o Options) wireProtocol() clickhouse.Protocol {
	switch o.Protocol {
	case ProtocolHTTP:
		return clickhouse.HTTP
	case ProtocolNative:
		return clickhouse.Native
	}
	if o.Port == 8123 || o.Port == 8443 {
		return clickhouse.HTTP
	}
	return clickhouse.Native
}

// Querier abstracts the subset of driver.Conn used by Backend.
// Production code passes a real driver.Conn; tests inject a fake.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Exec(ctx context.Context, query string, args ...any) error
}

// secure reports whether the connection uses TLS.
func (o Options) secure() bool {
	return o.Secure || o.Port == 8443 || o.Port == 9440
}

// driverOptions builds the client options for a run.
//
// Over HTTP, runID is sent as session_id so that USE stays in effect for
// later statements; the native protocol keeps it on the one pooled
// connection.
func (o Options) driverOptions(runID string) *clickhouse.Options {
	chOpts := &clickhouse.Options{
		Protocol: o.wireProtocol(),
		Addr:     []string{o.Addr()},
		Auth: clickhouse.Auth{
			Username: o.Username,
			Password: o.Password,
		},
		DialTimeout:  o.DialTimeout,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	if o.secure() {
		chOpts.TLS = &tls.Config{ServerName: o.Host}
	}
	if chOpts.Protocol == clickhouse.HTTP && runID != "" {
		chOpts.Settings = clickhouse.Settings{"session_id": runID}
	}
	return chOpts
}

// Connect opens a single-connection pool and pings the server so that
// unreachable endpoints, rejected credentials, and handshake failures
// surface here.
func Connect(ctx context.Context, opts Options, runID string) (*Backend, error) {
	chOpts := opts.driverOptions(runID)

	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse %s: %w", opts.Addr(), err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse %s: %w", opts.Addr(), err)
	}

	slog.Debug("clickhouse connected", "addr", opts.Addr(), "http", chOpts.Protocol == clickhouse.HTTP, "tls", chOpts.TLS != nil)
	return New(conn, runID), nil
}

// Backend issues bootstrap statements through a Querier.
// Not safe for concurrent use.
type Backend struct {
	q     Querier
	runID string
	seq   int
}

var _ bootstrap.Backend = (*Backend)(nil)

// New wraps q. If q implements io.Closer, Close closes it.
func New(q Querier, runID string) *Backend {
	return &Backend{q: q, runID: runID}
}

// CreateNamespace issues CREATE DATABASE IF NOT EXISTS.
func (b *Backend) CreateNamespace(ctx context.Context, name string) error {
	return b.exec(ctx, CreateDatabase(name))
}

// UseNamespace issues USE.
func (b *Backend) UseNamespace(ctx context.Context, name string) error {
	return b.exec(ctx, Use(name))
}

// CreateTable issues CREATE TABLE IF NOT EXISTS.
func (b *Backend) CreateTable(ctx context.Context, schema bootstrap.TableSchema) error {
	return b.exec(ctx, CreateTable(schema))
}

// Insert issues one INSERT ... VALUES for all rows.
func (b *Backend) Insert(ctx context.Context, table string, rows []bootstrap.Row) error {
	return b.exec(ctx, Insert(table, rows))
}

// SelectAll issues SELECT * and scans each result row as (id, name).
func (b *Backend) SelectAll(ctx context.Context, table string) ([]bootstrap.Row, error) {
	ctx, queryID := b.queryContext(ctx)
	stmt := SelectAll(table)
	slog.Debug("clickhouse query", "query_id", queryID, "statement", stmt)

	rows, err := b.q.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []bootstrap.Row{}
	for rows.Next() {
		var r bootstrap.Row
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying connection when it is closable.
func (b *Backend) Close() error {
	if c, ok := b.q.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Backend) exec(ctx context.Context, stmt string) error {
	ctx, queryID := b.queryContext(ctx)
	slog.Debug("clickhouse exec", "query_id", queryID, "statement", stmt)
	return b.q.Exec(ctx, stmt)
}

// queryContext tags ctx with the next query ID, <runID>-<n>.
func (b *Backend) queryContext(ctx context.Context) (context.Context, string) {
	b.seq++
	if b.runID == "" {
		return ctx, ""
	}
	queryID := fmt.Sprintf("%s-%d", b.runID, b.seq)
	return clickhouse.Context(ctx, clickhouse.WithQueryID(queryID)), queryID
}
