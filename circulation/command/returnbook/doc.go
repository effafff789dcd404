// Package returnbook implements the Return Book use case.
//
// A return closes the outstanding borrow log entry and increments the
// available quantity of the book, both inside one transaction holding
// the book's row lock. The book identifier in the request must match the
// one recorded in the borrow log; the original caller-supplied value is
// never trusted for the quantity update.
//
// Closing the log is guarded in the store by the entry still being open,
// so two racing returns of the same loan can only ever increment the
// quantity once - the loser gets already returned.
package returnbook
