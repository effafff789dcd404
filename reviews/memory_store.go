package reviews

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process review store. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	byBook map[uuid.UUID][]Review
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byBook: make(map[uuid.UUID][]Review),
	}
}

// AppendReview stores a review for a book in arrival order.
func (s *MemoryStore) AppendReview(_ context.Context, bookID uuid.UUID, review Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byBook[bookID] = append(s.byBook[bookID], review)

	return nil
}

// ReviewsForBook returns all reviews for a book in arrival order. A book
// without reviews yields an empty slice, not an error.
func (s *MemoryStore) ReviewsForBook(_ context.Context, bookID uuid.UUID) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byBook[bookID]
	result := make([]Review, len(stored))
	copy(result, stored)

	return result, nil
}
