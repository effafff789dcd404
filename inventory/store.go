package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tx is the transactional store contract of the inventory core. All
// operations participate in a single atomic unit of work per borrow or
// return request; either Commit or Rollback must be called exactly once.
//
// LockBookForUpdate is the sole serialization point of the whole flow: it
// acquires an exclusive row-level lock on the targeted book for the
// duration of the transaction, blocking concurrent lockers of the same
// book until the holder commits or aborts. Unrelated books never contend.
type Tx interface {
	// LockBookForUpdate reads the book row under an exclusive row lock.
	// Returns ErrBookNotFound if the book does not exist.
	LockBookForUpdate(ctx context.Context, bookID uuid.UUID) (Book, error)

	// SetAvailableQuantity writes the available quantity unconditionally.
	// The caller must already hold the row lock for this book.
	SetAvailableQuantity(ctx context.Context, bookID uuid.UUID, quantity int) error

	// AppendBorrowLog inserts a new outstanding loan row and returns its
	// generated log identifier.
	AppendBorrowLog(ctx context.Context, bookID uuid.UUID, userID uuid.UUID, borrowedAt time.Time, returnBy time.Time) (uuid.UUID, error)

	// CloseBorrowLog sets the returned-at timestamp of an outstanding log.
	// Returns ErrBorrowLogAlreadyClosed if returned-at is already set and
	// ErrBorrowLogNotFound if the log does not exist.
	CloseBorrowLog(ctx context.Context, logID uuid.UUID, returnedAt time.Time) error

	// Commit makes the unit of work durable.
	Commit(ctx context.Context) error

	// Rollback voids the unit of work. Calling Rollback after a failed
	// Commit is a no-op.
	Rollback(ctx context.Context) error
}
