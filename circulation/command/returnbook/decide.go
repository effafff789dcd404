package returnbook

import (
	"github.com/google/uuid"

	"libraria/circulation"
	"libraria/inventory"
)

// Decide implements the business logic to determine whether a borrow log
// entry may be closed by the given principal. This is a pure function
// with no side effects.
//
// Business Rules:
//
//	GIVEN: A borrow log entry with LogID
//	WHEN: ReturnBook command is received
//	THEN: The entry may be closed and one copy goes back into stock
//	ERROR: "invalid request" if the command's book does not match the log
//	ERROR: "borrow log belongs to a different user" if the principal
//	       did not create the log
//	ERROR: "book has already been returned" if the log is already closed
//
// Ownership is checked before the returned state so that a foreign
// caller learns nothing about whether the loan is still open.
func Decide(borrowLog inventory.BorrowLog, bookID uuid.UUID, principal uuid.UUID) error {
	if borrowLog.BookID != bookID {
		return circulation.ErrInvalidRequest
	}

	if borrowLog.UserID != principal {
		return circulation.ErrForbidden
	}

	if !borrowLog.Outstanding() {
		return circulation.ErrAlreadyReturned
	}

	return nil
}
