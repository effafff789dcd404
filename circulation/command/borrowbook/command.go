package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"libraria/circulation"
	"libraria/inventory"
)

const commandType = "BorrowBook"

// Command represents the intent of a user to borrow one copy of a book.
// It encapsulates all the necessary information required to execute the
// borrow book use case.
type Command struct {
	BookID     uuid.UUID
	UserID     uuid.UUID
	ReturnBy   time.Time
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// Validation happens here, before any storage access: zero identifiers
// or a zero return-by date are rejected with circulation.ErrInvalidRequest.
func BuildCommand(bookID uuid.UUID, userID uuid.UUID, returnBy time.Time, occurredAt time.Time) (Command, error) {
	if bookID == uuid.Nil || userID == uuid.Nil || returnBy.IsZero() {
		return Command{}, circulation.ErrInvalidRequest
	}

	return Command{
		BookID:     bookID,
		UserID:     userID,
		ReturnBy:   inventory.ToTimestamp(returnBy),
		OccurredAt: inventory.ToTimestamp(occurredAt),
	}, nil
}
