package returnbook

import (
	"time"

	"github.com/google/uuid"

	"libraria/circulation"
	"libraria/inventory"
)

const commandType = "ReturnBook"

// Command represents the intent of a user to return a borrowed book copy.
type Command struct {
	LogID      uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// Validation happens here, before any storage access: zero identifiers
// are rejected with circulation.ErrInvalidRequest.
func BuildCommand(logID uuid.UUID, bookID uuid.UUID, userID uuid.UUID, occurredAt time.Time) (Command, error) {
	if logID == uuid.Nil || bookID == uuid.Nil || userID == uuid.Nil {
		return Command{}, circulation.ErrInvalidRequest
	}

	return Command{
		LogID:      logID,
		BookID:     bookID,
		UserID:     userID,
		OccurredAt: inventory.ToTimestamp(occurredAt),
	}, nil
}
