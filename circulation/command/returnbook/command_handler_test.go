package returnbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraria/circulation"
	"libraria/circulation/command/borrowbook"
	"libraria/circulation/command/returnbook"
	"libraria/inventory"
	"libraria/testutil/inventoryfakes"
)

// Scenario: the full borrow journey - two copies, two successful borrows,
// a third rejected, then the first loan is returned and the quantity is
// back to one.
func Test_ReturnBook_ShouldRestoreQuantity_AfterBookRanOutOfStock(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	cache := inventoryfakes.NewCacheSpy()
	borrowHandler := borrowbook.NewCommandHandler(store, cache)
	returnHandler := returnbook.NewCommandHandler(store, cache)

	book := givenBook(t, store, 2, 2)
	firstUser := uuid.New()

	firstBorrow, firstErr := borrowHandler.Handle(context.Background(), givenBorrowCommand(t, book.ID, firstUser))
	require.NoError(t, firstErr)
	assert.Equal(t, 1, firstBorrow.RemainingQuantity)

	_, secondErr := borrowHandler.Handle(context.Background(), givenBorrowCommand(t, book.ID, uuid.New()))
	require.NoError(t, secondErr)

	_, thirdErr := borrowHandler.Handle(context.Background(), givenBorrowCommand(t, book.ID, uuid.New()))
	require.ErrorIs(t, thirdErr, circulation.ErrOutOfStock)

	// act
	result, returnErr := returnHandler.Handle(
		context.Background(),
		givenReturnCommand(t, firstBorrow.LogID, book.ID, firstUser),
	)

	// assert
	assert.NoError(t, returnErr)
	assert.Equal(t, 1, result.RemainingQuantity)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, stored.AvailableQuantity)
	assert.Equal(t, inventory.BookStatusAvailable, stored.Status())
	assert.Equal(t, 1, store.OutstandingLogCount(book.ID))
}

// Property: a borrow followed by its return restores the available
// quantity exactly.
func Test_ReturnBook_ShouldRestoreQuantity_AfterRoundTrip(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	cache := inventoryfakes.NewCacheSpy()
	borrowHandler := borrowbook.NewCommandHandler(store, cache)
	returnHandler := returnbook.NewCommandHandler(store, cache)

	book := givenBook(t, store, 5, 5)
	userID := uuid.New()

	borrowResult, borrowErr := borrowHandler.Handle(context.Background(), givenBorrowCommand(t, book.ID, userID))
	require.NoError(t, borrowErr)

	// act
	returnResult, returnErr := returnHandler.Handle(
		context.Background(),
		givenReturnCommand(t, borrowResult.LogID, book.ID, userID),
	)

	// assert
	assert.NoError(t, returnErr)
	assert.Equal(t, 5, returnResult.RemainingQuantity)
	assert.Equal(t, 0, store.OutstandingLogCount(book.ID))

	closedLog, getErr := store.GetBorrowLog(context.Background(), borrowResult.LogID)
	assert.NoError(t, getErr)
	assert.False(t, closedLog.Outstanding())
}

// Property: returning the same loan twice increments the quantity once,
// not twice - the second call is rejected with already returned.
func Test_ReturnBook_ShouldIncrementQuantityOnlyOnce_WhenReturnedTwice(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	returnHandler := returnbook.NewCommandHandler(store, inventoryfakes.NewCacheSpy())

	book := givenBook(t, store, 3, 1)
	userID := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, userID)

	// act
	first, firstErr := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, userID))
	_, secondErr := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, userID))

	// assert
	assert.NoError(t, firstErr)
	assert.Equal(t, 2, first.RemainingQuantity)
	assert.ErrorIs(t, secondErr, circulation.ErrAlreadyReturned)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 2, stored.AvailableQuantity)
}

// Two concurrent returns of the same loan: exactly one wins, the guarded
// close turns the loser into already returned.
func Test_ReturnBook_ShouldIncrementQuantityOnlyOnce_UnderConcurrentReturns(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	returnHandler := returnbook.NewCommandHandler(store, inventoryfakes.NewCacheSpy())

	book := givenBook(t, store, 2, 0)
	userID := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, userID)

	// act
	var wg sync.WaitGroup
	outcomes := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, userID))
			outcomes <- err
		}()
	}

	wg.Wait()
	close(outcomes)

	// assert
	succeeded, alreadyReturned := 0, 0
	for err := range outcomes {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, circulation.ErrAlreadyReturned):
			alreadyReturned++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, alreadyReturned)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, stored.AvailableQuantity)
}

// Property: an ownership violation leaves book and log untouched.
func Test_ReturnBook_ShouldLeaveStateUnchanged_WhenCallerDoesNotOwnTheLog(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	returnHandler := returnbook.NewCommandHandler(store, inventoryfakes.NewCacheSpy())

	book := givenBook(t, store, 2, 1)
	owner := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, owner)

	// act
	_, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, uuid.New()))

	// assert
	assert.ErrorIs(t, err, circulation.ErrForbidden)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, stored.AvailableQuantity)

	unchangedLog, getErr := store.GetBorrowLog(context.Background(), borrowLog.ID)
	assert.NoError(t, getErr)
	assert.True(t, unchangedLog.Outstanding())
}

func Test_ReturnBook_ShouldRejectWithInvalidRequest_WhenBookDoesNotMatchLog(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	returnHandler := returnbook.NewCommandHandler(store, inventoryfakes.NewCacheSpy())

	book := givenBook(t, store, 2, 1)
	otherBook := givenBook(t, store, 1, 1)
	userID := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, userID)

	// act
	_, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, otherBook.ID, userID))

	// assert
	assert.ErrorIs(t, err, circulation.ErrInvalidRequest)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, stored.AvailableQuantity)
}

func Test_ReturnBook_ShouldRejectWithBorrowLogNotFound_WhenLogDoesNotExist(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	returnHandler := returnbook.NewCommandHandler(store, inventoryfakes.NewCacheSpy())

	book := givenBook(t, store, 1, 1)

	// act
	_, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, uuid.New(), book.ID, uuid.New()))

	// assert
	assert.ErrorIs(t, err, inventory.ErrBorrowLogNotFound)
}

func Test_ReturnBook_ShouldSucceed_WhenCacheRefreshFails(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	cache := inventoryfakes.NewCacheSpy()
	cache.SetErr = errors.New("connection refused")
	logger := inventoryfakes.NewLoggerSpy()
	returnHandler := returnbook.NewCommandHandler(store, cache, returnbook.WithLogger(logger))

	book := givenBook(t, store, 1, 0)
	userID := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, userID)

	// act
	result, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, userID))

	// assert - the committed return stands, the failure is only logged
	assert.NoError(t, err)
	assert.Equal(t, 1, result.RemainingQuantity)
	assert.NotEmpty(t, logger.Messages("warn"))
}

func Test_ReturnBook_ShouldLeaveStateUnchanged_WhenCommitFails(t *testing.T) {
	// arrange
	store := inventoryfakes.NewFakeInventoryStore()
	store.CommitErr = errors.New("connection reset by peer")
	cache := inventoryfakes.NewCacheSpy()
	returnHandler := returnbook.NewCommandHandler(store, cache)

	book := givenBook(t, store, 2, 0)
	userID := uuid.New()
	borrowLog := givenOutstandingSeededLog(t, store, book.ID, userID)

	// act
	_, err := returnHandler.Handle(context.Background(), givenReturnCommand(t, borrowLog.ID, book.ID, userID))

	// assert
	assert.ErrorIs(t, err, inventory.ErrTransactionFailed)

	stored, ok := store.Book(book.ID)
	assert.True(t, ok)
	assert.Equal(t, 0, stored.AvailableQuantity)

	openLog, getErr := store.GetBorrowLog(context.Background(), borrowLog.ID)
	assert.NoError(t, getErr)
	assert.True(t, openLog.Outstanding())
	assert.Empty(t, cache.SetCalls())
}

func givenBook(t *testing.T, store *inventoryfakes.FakeInventoryStore, total int, available int) inventory.Book {
	t.Helper()

	book := inventory.Book{
		ID:                uuid.New(),
		Title:             "Designing Data-Intensive Applications",
		Author:            "Martin Kleppmann",
		Year:              2017,
		Category:          "databases",
		TotalQuantity:     total,
		AvailableQuantity: available,
	}
	store.SeedBook(book)

	return book
}

func givenOutstandingSeededLog(
	t *testing.T,
	store *inventoryfakes.FakeInventoryStore,
	bookID uuid.UUID,
	userID uuid.UUID,
) inventory.BorrowLog {
	t.Helper()

	now := time.Now()
	borrowLog := inventory.BorrowLog{
		ID:         uuid.New(),
		BookID:     bookID,
		UserID:     userID,
		BorrowedAt: inventory.ToTimestamp(now),
		ReturnBy:   inventory.ToTimestamp(now.AddDate(0, 0, 14)),
	}
	store.SeedBorrowLog(borrowLog)

	return borrowLog
}

func givenBorrowCommand(t *testing.T, bookID uuid.UUID, userID uuid.UUID) borrowbook.Command {
	t.Helper()

	now := time.Now()
	command, err := borrowbook.BuildCommand(bookID, userID, now.AddDate(0, 0, 14), now)
	assert.NoError(t, err)

	return command
}

func givenReturnCommand(t *testing.T, logID uuid.UUID, bookID uuid.UUID, userID uuid.UUID) returnbook.Command {
	t.Helper()

	command, err := returnbook.BuildCommand(logID, bookID, userID, time.Now())
	assert.NoError(t, err)

	return command
}
