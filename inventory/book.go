package inventory

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is the availability status derived from a book's quantities.
// It is never persisted - deriving it at read time keeps it from drifting
// away from the true quantity.
type BookStatus = string

const (
	// BookStatusAvailable means at least one copy can be borrowed.
	BookStatusAvailable BookStatus = "available"

	// BookStatusOutOfStock means every copy is currently borrowed.
	BookStatusOutOfStock BookStatus = "out of stock"
)

// Book represents the authoritative inventory record of a single title.
//
// Invariant: 0 <= AvailableQuantity <= TotalQuantity. The store enforces
// this only through the coordinator's locked check-then-mutate protocol;
// Book itself is a plain value.
type Book struct {
	ID                uuid.UUID
	Title             string
	Author            string
	Year              int
	Category          string
	TotalQuantity     int
	AvailableQuantity int
}

// Status derives the availability status from the available quantity.
func (b Book) Status() BookStatus {
	if b.AvailableQuantity > 0 {
		return BookStatusAvailable
	}

	return BookStatusOutOfStock
}

// ToTimestamp normalizes a time to UTC with microsecond precision, the
// precision Postgres stores for timestamptz columns.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
