package inventoryfakes

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SetCall records one SetAvailable invocation.
type SetCall struct {
	BookID   uuid.UUID
	Quantity int
}

// CacheSpy is an in-memory availability cache that records writes and
// serves seeded entries. Safe for concurrent use.
type CacheSpy struct {
	mu      sync.Mutex
	entries map[uuid.UUID]int
	sets    []SetCall

	// SetErr, when set, makes SetAvailable fail with that error.
	SetErr error

	// GetErr, when set, makes GetAvailable report a miss with that error.
	GetErr error
}

// NewCacheSpy creates an empty CacheSpy.
func NewCacheSpy() *CacheSpy {
	return &CacheSpy{
		entries: make(map[uuid.UUID]int),
	}
}

// SeedEntry stores a cached quantity directly.
func (c *CacheSpy) SeedEntry(bookID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[bookID] = quantity
}

// SetAvailable records the write and stores the entry unless SetErr is set.
func (c *CacheSpy) SetAvailable(_ context.Context, bookID uuid.UUID, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = append(c.sets, SetCall{BookID: bookID, Quantity: quantity})

	if c.SetErr != nil {
		return c.SetErr
	}

	c.entries[bookID] = quantity

	return nil
}

// GetAvailable serves a seeded or previously written entry.
func (c *CacheSpy) GetAvailable(_ context.Context, bookID uuid.UUID) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return 0, false, c.GetErr
	}

	quantity, ok := c.entries[bookID]

	return quantity, ok, nil
}

// Forget removes an entry.
func (c *CacheSpy) Forget(_ context.Context, bookID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, bookID)

	return nil
}

// SetCalls returns a copy of all recorded SetAvailable invocations.
func (c *CacheSpy) SetCalls() []SetCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	calls := make([]SetCall, len(c.sets))
	copy(calls, c.sets)

	return calls
}
