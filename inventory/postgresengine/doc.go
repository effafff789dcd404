// Package postgresengine provides the PostgreSQL implementation of the
// inventory store.
//
// The store keeps two tables: a books table holding the authoritative
// quantities per title, and an append-only borrow_logs table recording
// every borrow/return cycle. Multiple PostgreSQL client libraries are
// supported (pgx.Pool, sql.DB, and sqlx.DB) through an internal adapter
// layer, so callers pick their connection type via the matching
// constructor and get identical behavior.
//
// Reads go straight through the pool. Mutations happen inside a
// transaction obtained from BeginTx: the returned unit of work locks the
// targeted book row with SELECT ... FOR UPDATE, which serializes
// concurrent borrows and returns of the same book while leaving
// unrelated books uncontended.
//
// SQL is built with goqu using the postgres dialect and executed with
// inlined values, matching how the rest of the storage code renders
// statements.
package postgresengine
