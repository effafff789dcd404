package inventory

import (
	"time"

	"github.com/google/uuid"
)

// BorrowLog is one entry of the append-only audit trail of borrow/return
// cycles. A log row is created by a borrow and mutated exactly once by the
// matching return, which sets ReturnedAt. Log rows are never deleted.
//
// An outstanding log (ReturnedAt == nil) corresponds to exactly one
// decremented unit of its book's available quantity.
type BorrowLog struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	BorrowedAt time.Time
	ReturnBy   time.Time
	ReturnedAt *time.Time
}

// Outstanding reports whether the borrowed copy has not been returned yet.
func (l BorrowLog) Outstanding() bool {
	return l.ReturnedAt == nil
}
