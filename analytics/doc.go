// Package analytics materializes reporting tables from the library data.
//
// Every materializer is truncate-and-reload into the reporting database:
// wipe the target table, recompute from the authoritative sources, load.
// That makes each run idempotent, so a failed or skipped run is repaired
// by the next one and the Runner can simply log failures and move on.
//
// The reporting database is separate from the library database; nothing
// here ever writes to the operational tables.
package analytics
