// Package inventory holds the domain types of the library inventory core:
// books with their copy counts, the append-only borrow log, and the
// transactional store contract that the borrow/return coordinator runs
// against.
//
// The relational store behind this contract is the single source of truth
// for copy counts. The availability cache is a best-effort mirror and is
// deliberately absent from this package.
package inventory
