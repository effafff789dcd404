package borrowbook

import (
	"libraria/circulation"
	"libraria/inventory"
)

// Decide implements the business logic to determine whether a copy of the
// book can be borrowed. This is a pure function with no side effects - it
// takes the book state read under the row lock and returns the new
// available quantity that should be written.
//
// Business Rules:
//
//	GIVEN: A book with BookID, read under an exclusive row lock
//	WHEN: BorrowBook command is received
//	THEN: The available quantity is decremented by one
//	ERROR: "book is out of stock" if no copy is currently available
//
// The quantity can never go below zero: the decision is made on the
// locked row state, so no concurrent borrow can invalidate it before the
// transaction commits.
func Decide(book inventory.Book) (int, error) {
	if book.AvailableQuantity <= 0 {
		return 0, circulation.ErrOutOfStock
	}

	return book.AvailableQuantity - 1, nil
}
