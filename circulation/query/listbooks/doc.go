// Package listbooks implements the List Books query.
//
// The listing joins three sources: the authoritative book rows from the
// inventory store, the cached available quantity (used when present,
// stored value otherwise), and the opaque reviews of each book. Status
// is derived from the quantity at read time.
package listbooks
