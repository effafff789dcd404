package circulation

import "errors"

// Business errors of the borrow/return flow. These are ordinary result
// values - handlers return them, transports map them to status codes,
// nothing ever panics on them.
var (
	// ErrInvalidRequest is returned when a request is malformed before any
	// storage access happens: zero identifiers, a missing return-by date,
	// or a book identifier that contradicts the borrow log.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOutOfStock is returned when every copy of the book is currently
	// borrowed.
	ErrOutOfStock = errors.New("book is out of stock")

	// ErrForbidden is returned when the borrow log belongs to a different
	// user than the caller.
	ErrForbidden = errors.New("borrow log belongs to a different user")

	// ErrAlreadyReturned is returned when the borrow log is already closed.
	ErrAlreadyReturned = errors.New("book has already been returned")
)
