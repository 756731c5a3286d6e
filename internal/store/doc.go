// Package store provides an embedded SQLite engine for the bootstrap flow.
//
// It implements bootstrap.Backend so the flow can run without a ClickHouse
// server: locally for dry rehearsals, and in tests.
//
// # Layout
//
// A store is a directory:
//   - catalog.db: the namespace and table catalog
//   - <namespace>.db: one attached database file per namespace
//
// Namespaces are attached under their own name, so a table t in namespace
// ns is addressed as "ns"."t".
//
// # Semantics
//
//   - CreateNamespace and CreateTable are create-if-absent. An existing table
//     is never compared with the requested schema.
//   - Insert writes the whole batch in one statement inside a transaction.
//   - SelectAll returns rows in insertion order (rowid).
//   - ClickHouse integer widths become INTEGER columns with range CHECKs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - One pooled connection: attachments are per connection
package store
