package returnbook

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"libraria/circulation"
	"libraria/inventory"
)

const (
	logMsgBookReturned         = "book returned"
	logMsgCacheRefreshFailed   = "availability cache refresh failed after return"
	logMsgRollbackAfterFailure = "rolled back return transaction"
	logAttrError               = "error"
	logAttrBookID              = "book_id"
	logAttrUserID              = "user_id"
	logAttrLogID               = "log_id"
	logAttrRemaining           = "remaining_quantity"
)

// Store defines the interface needed by the CommandHandler for inventory
// store operations.
type Store interface {
	GetBorrowLog(ctx context.Context, logID uuid.UUID) (inventory.BorrowLog, error)
	BeginTx(ctx context.Context) (inventory.Tx, error)
}

// AvailabilityCache defines the interface needed by the CommandHandler
// for the best-effort availability cache refresh.
type AvailabilityCache interface {
	SetAvailable(ctx context.Context, bookID uuid.UUID, quantity int) error
}

// Logger interface for operational logging and warnings.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Result carries the business outcome of a successful return.
type Result struct {
	RemainingQuantity int
}

// CommandHandler orchestrates the complete return workflow:
// GetBorrowLog -> Decide -> BeginTx -> LockBookForUpdate ->
// CloseBorrowLog -> SetAvailableQuantity -> Commit -> cache refresh.
//
// The pre-transaction Decide covers the common cases cheaply; the
// guarded close inside the transaction is what makes a racing double
// return safe.
type CommandHandler struct {
	store  Store
	cache  AvailabilityCache
	logger Logger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithLogger sets the logger for the CommandHandler.
func WithLogger(logger Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store Store, cache AvailabilityCache, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store: store,
		cache: cache,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the return workflow for one command.
//
// The quantity update uses the book identifier recorded in the borrow
// log, never the caller-supplied one; a mismatch is rejected as an
// invalid request before the transaction starts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	borrowLog, getErr := h.store.GetBorrowLog(ctx, command.LogID)
	if getErr != nil {
		return Result{}, getErr
	}

	if decideErr := Decide(borrowLog, command.BookID, command.UserID); decideErr != nil {
		return Result{}, decideErr
	}

	tx, beginErr := h.store.BeginTx(ctx)
	if beginErr != nil {
		return Result{}, beginErr
	}

	book, lockErr := tx.LockBookForUpdate(ctx, borrowLog.BookID)
	if lockErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, lockErr
	}

	if closeErr := tx.CloseBorrowLog(ctx, command.LogID, command.OccurredAt); closeErr != nil {
		h.rollback(ctx, tx, command)

		// A racing return closed the log between the unlocked read and
		// the guarded close.
		if errors.Is(closeErr, inventory.ErrBorrowLogAlreadyClosed) {
			return Result{}, circulation.ErrAlreadyReturned
		}

		return Result{}, closeErr
	}

	newQuantity := book.AvailableQuantity + 1

	if setErr := tx.SetAvailableQuantity(ctx, borrowLog.BookID, newQuantity); setErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, setErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, commitErr
	}

	h.refreshCache(ctx, borrowLog.BookID, newQuantity)

	if h.logger != nil {
		h.logger.Info(logMsgBookReturned,
			logAttrBookID, borrowLog.BookID.String(),
			logAttrUserID, command.UserID.String(),
			logAttrLogID, command.LogID.String(),
			logAttrRemaining, newQuantity)
	}

	return Result{RemainingQuantity: newQuantity}, nil
}

// refreshCache updates the availability cache after the commit. Failures
// are logged and swallowed - the committed return stands regardless.
func (h CommandHandler) refreshCache(ctx context.Context, bookID uuid.UUID, quantity int) {
	if h.cache == nil {
		return
	}

	if cacheErr := h.cache.SetAvailable(ctx, bookID, quantity); cacheErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgCacheRefreshFailed,
				logAttrError, cacheErr.Error(),
				logAttrBookID, bookID.String())
		}
	}
}

func (h CommandHandler) rollback(ctx context.Context, tx inventory.Tx, command Command) {
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgRollbackAfterFailure,
				logAttrError, rollbackErr.Error(),
				logAttrLogID, command.LogID.String())
		}
	}
}
