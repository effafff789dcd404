// Package adapters provides database adapter implementations for the
// PostgreSQL inventory store.
//
// This package implements the adapter pattern to support multiple
// PostgreSQL database libraries: pgx.Pool, sql.DB, and sqlx.DB. All
// adapters provide equivalent functionality through a common DBAdapter
// interface, allowing the inventory store to work seamlessly with any
// supported database connection type.
//
// Unlike a plain query/exec adapter, these adapters also expose
// transactions (DBTx), because the borrow/return unit of work spans a
// row-locking read followed by multiple writes.
package adapters
