// Package inventoryfakes provides in-memory test doubles for the
// inventory store, the availability cache, and the slog-shaped loggers.
//
// FakeInventoryStore implements real blocking per-book locks, so
// concurrency tests exercise the same serialization behavior the
// PostgreSQL row lock provides: two transactions locking the same book
// run strictly one after the other, while different books never contend.
package inventoryfakes
