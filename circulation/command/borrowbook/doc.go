// Package borrowbook implements the Borrow Book use case.
//
// A borrow decrements the available quantity of a book and appends an
// outstanding entry to the borrow log, both inside one transaction that
// holds an exclusive row lock on the book. The lock is the only
// serialization point: when several users race for the last copy,
// exactly one wins and the rest are rejected with out of stock.
//
// The availability cache is refreshed after the commit and strictly best
// effort - a cache failure never fails the borrow.
package borrowbook
