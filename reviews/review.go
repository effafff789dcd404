package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"libraria/inventory"
)

const (
	minRating = 1
	maxRating = 5
)

var (
	// ErrInvalidRating is returned when a rating lies outside [1, 5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrMissingReviewer is returned when a review carries no user identifier.
	ErrMissingReviewer = errors.New("review must carry a user identifier")
)

// Review is one user's opinion on a book. The core treats it as opaque
// payload attached to listings.
type Review struct {
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// BuildReview creates a Review, validating the rating range.
func BuildReview(userID uuid.UUID, rating int, comment string, createdAt time.Time) (Review, error) {
	if userID == uuid.Nil {
		return Review{}, ErrMissingReviewer
	}

	if rating < minRating || rating > maxRating {
		return Review{}, ErrInvalidRating
	}

	return Review{
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: inventory.ToTimestamp(createdAt),
	}, nil
}

// Store is the contract of the review subsystem.
type Store interface {
	AppendReview(ctx context.Context, bookID uuid.UUID, review Review) error
	ReviewsForBook(ctx context.Context, bookID uuid.UUID) ([]Review, error)
}
