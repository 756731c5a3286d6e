// Package bootstrap implements the bootstrap-and-verify flow.
//
// A flow run connects to a database backend, ensures a namespace and a
// table exist, appends a fixed batch of rows, and reads the table back:
//
//	Connect → EnsureNamespace → SelectNamespace → EnsureTable → InsertRows → QueryAll
//
// The sequence is strictly linear. There are no retries and no
// compensating actions: the first failure aborts the remaining steps and is
// returned to the caller as an *Error carrying one of four kinds
// (connection, schema, write, read). The backend is closed on every exit
// path.
//
// Two properties of the flow are deliberate and covered by tests:
//   - EnsureTable never compares an existing table's columns with the
//     requested schema (schema drift goes undetected).
//   - InsertRows appends on every run; rerunning duplicates rows.
//
// Backends live in sibling packages: internal/clickhouse talks to a
// ClickHouse server and internal/store provides an embedded SQLite engine.
package bootstrap
