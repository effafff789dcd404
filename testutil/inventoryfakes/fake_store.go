package inventoryfakes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"libraria/inventory"
)

// FakeInventoryStore is an in-memory inventory store with blocking
// per-book locks. It satisfies the Store interfaces of the borrow and
// return handlers as well as the read side of the listing query.
type FakeInventoryStore struct {
	mu        sync.Mutex
	books     map[uuid.UUID]inventory.Book
	logs      map[uuid.UUID]inventory.BorrowLog
	bookLocks map[uuid.UUID]*sync.Mutex

	// BeginErr, when set, makes BeginTx fail with that error.
	BeginErr error

	// CommitErr, when set, makes Commit fail after discarding all staged
	// writes, simulating a transaction that could not be made durable.
	CommitErr error
}

// NewFakeInventoryStore creates an empty FakeInventoryStore.
func NewFakeInventoryStore() *FakeInventoryStore {
	return &FakeInventoryStore{
		books:     make(map[uuid.UUID]inventory.Book),
		logs:      make(map[uuid.UUID]inventory.BorrowLog),
		bookLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// SeedBook inserts or replaces a book directly, bypassing transactions.
func (s *FakeInventoryStore) SeedBook(book inventory.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books[book.ID] = book
}

// SeedBorrowLog inserts or replaces a borrow log directly, bypassing transactions.
func (s *FakeInventoryStore) SeedBorrowLog(borrowLog inventory.BorrowLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[borrowLog.ID] = borrowLog
}

// Book returns the committed state of a book.
func (s *FakeInventoryStore) Book(bookID uuid.UUID) (inventory.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]

	return book, ok
}

// OutstandingLogCount counts the committed open borrow logs of a book.
func (s *FakeInventoryStore) OutstandingLogCount(bookID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, borrowLog := range s.logs {
		if borrowLog.BookID == bookID && borrowLog.Outstanding() {
			count++
		}
	}

	return count
}

// GetBook retrieves a committed book.
// Returns inventory.ErrBookNotFound if no such book exists.
func (s *FakeInventoryStore) GetBook(_ context.Context, bookID uuid.UUID) (inventory.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[bookID]
	if !ok {
		return inventory.Book{}, inventory.ErrBookNotFound
	}

	return book, nil
}

// GetBorrowLog retrieves a committed borrow log.
// Returns inventory.ErrBorrowLogNotFound if no such entry exists.
func (s *FakeInventoryStore) GetBorrowLog(_ context.Context, logID uuid.UUID) (inventory.BorrowLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrowLog, ok := s.logs[logID]
	if !ok {
		return inventory.BorrowLog{}, inventory.ErrBorrowLogNotFound
	}

	return borrowLog, nil
}

// ListBooks retrieves all committed books ordered by title.
func (s *FakeInventoryStore) ListBooks(_ context.Context) ([]inventory.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := make([]inventory.Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, book)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	return books, nil
}

// BeginTx starts a unit of work over the in-memory state.
func (s *FakeInventoryStore) BeginTx(_ context.Context) (inventory.Tx, error) {
	if s.BeginErr != nil {
		return nil, errors.Join(inventory.ErrTransactionFailed, s.BeginErr)
	}

	return &fakeTx{
		store:            s,
		acquired:         make(map[uuid.UUID]*sync.Mutex),
		stagedQuantities: make(map[uuid.UUID]int),
		stagedLogs:       make(map[uuid.UUID]inventory.BorrowLog),
		stagedCloses:     make(map[uuid.UUID]time.Time),
	}, nil
}

// lockForBook returns the lock mutex of a book, creating it on first use.
func (s *FakeInventoryStore) lockForBook(bookID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.bookLocks[bookID]
	if !ok {
		lock = &sync.Mutex{}
		s.bookLocks[bookID] = lock
	}

	return lock
}

// fakeTx stages all writes and applies them atomically on Commit, under
// the per-book locks acquired by LockBookForUpdate.
type fakeTx struct {
	store            *FakeInventoryStore
	acquired         map[uuid.UUID]*sync.Mutex
	stagedQuantities map[uuid.UUID]int
	stagedLogs       map[uuid.UUID]inventory.BorrowLog
	stagedCloses     map[uuid.UUID]time.Time
	done             bool
}

// LockBookForUpdate blocks until the book's lock is held, then reads the
// committed state - exactly the observable behavior of SELECT ... FOR UPDATE.
func (t *fakeTx) LockBookForUpdate(_ context.Context, bookID uuid.UUID) (inventory.Book, error) {
	if _, already := t.acquired[bookID]; !already {
		lock := t.store.lockForBook(bookID)
		lock.Lock()
		t.acquired[bookID] = lock
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	book, ok := t.store.books[bookID]
	if !ok {
		return inventory.Book{}, inventory.ErrBookNotFound
	}

	return book, nil
}

// SetAvailableQuantity stages the new quantity for Commit.
func (t *fakeTx) SetAvailableQuantity(_ context.Context, bookID uuid.UUID, quantity int) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, ok := t.store.books[bookID]; !ok {
		return inventory.ErrBookNotFound
	}

	t.stagedQuantities[bookID] = quantity

	return nil
}

// AppendBorrowLog stages a new outstanding loan row and returns its identifier.
func (t *fakeTx) AppendBorrowLog(
	_ context.Context,
	bookID uuid.UUID,
	userID uuid.UUID,
	borrowedAt time.Time,
	returnBy time.Time,
) (uuid.UUID, error) {

	logID := uuid.New()

	t.stagedLogs[logID] = inventory.BorrowLog{
		ID:         logID,
		BookID:     bookID,
		UserID:     userID,
		BorrowedAt: inventory.ToTimestamp(borrowedAt),
		ReturnBy:   inventory.ToTimestamp(returnBy),
	}

	return logID, nil
}

// CloseBorrowLog stages the close of an outstanding log.
func (t *fakeTx) CloseBorrowLog(_ context.Context, logID uuid.UUID, returnedAt time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	borrowLog, ok := t.store.logs[logID]
	if !ok {
		if _, staged := t.stagedLogs[logID]; !staged {
			return inventory.ErrBorrowLogNotFound
		}

		borrowLog = t.stagedLogs[logID]
	}

	if !borrowLog.Outstanding() {
		return inventory.ErrBorrowLogAlreadyClosed
	}

	if _, alreadyStaged := t.stagedCloses[logID]; alreadyStaged {
		return inventory.ErrBorrowLogAlreadyClosed
	}

	t.stagedCloses[logID] = inventory.ToTimestamp(returnedAt)

	return nil
}

// Commit applies all staged writes atomically and releases the locks.
func (t *fakeTx) Commit(_ context.Context) error {
	if t.done {
		return inventory.ErrTransactionFailed
	}
	t.done = true
	defer t.releaseLocks()

	if t.store.CommitErr != nil {
		return errors.Join(inventory.ErrTransactionFailed, t.store.CommitErr)
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for bookID, quantity := range t.stagedQuantities {
		book := t.store.books[bookID]
		book.AvailableQuantity = quantity
		t.store.books[bookID] = book
	}

	for logID, borrowLog := range t.stagedLogs {
		t.store.logs[logID] = borrowLog
	}

	for logID, returnedAt := range t.stagedCloses {
		borrowLog := t.store.logs[logID]
		closedAt := returnedAt
		borrowLog.ReturnedAt = &closedAt
		t.store.logs[logID] = borrowLog
	}

	return nil
}

// Rollback discards all staged writes and releases the locks. Rolling
// back a finished transaction is a no-op.
func (t *fakeTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.releaseLocks()

	return nil
}

func (t *fakeTx) releaseLocks() {
	for _, lock := range t.acquired {
		lock.Unlock()
	}

	t.acquired = make(map[uuid.UUID]*sync.Mutex)
}
