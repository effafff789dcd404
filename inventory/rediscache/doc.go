// Package rediscache provides the Redis-backed availability cache for
// the book inventory.
//
// The cache is a read-through accelerator for availability lookups and is
// never authoritative: the books table in PostgreSQL is. Writers refresh
// the cached count after their transaction commits, and every cache
// operation is best effort - a failure is logged and swallowed by the
// caller, never surfaced to the borrower.
//
// Entries expire after a TTL so that a missed refresh self-heals instead
// of serving a stale count forever.
package rediscache
