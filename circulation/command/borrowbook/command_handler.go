package borrowbook

import (
	"context"

	"github.com/google/uuid"

	"libraria/inventory"
)

const (
	logMsgBookBorrowed         = "book borrowed"
	logMsgCacheRefreshFailed   = "availability cache refresh failed after borrow"
	logMsgRollbackAfterFailure = "rolled back borrow transaction"
	logAttrError               = "error"
	logAttrBookID              = "book_id"
	logAttrUserID              = "user_id"
	logAttrLogID               = "log_id"
	logAttrRemaining           = "remaining_quantity"
)

// Store defines the interface needed by the CommandHandler for inventory
// store operations.
type Store interface {
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

// Result carries the business outcome of a successful borrow.
type Result struct {
	LogID             uuid.UUID
	RemainingQuantity int
}

// CommandHandler orchestrates the complete borrow workflow:
// BeginTx -> LockBookForUpdate -> Decide -> SetAvailableQuantity ->
// AppendBorrowLog -> Commit -> cache refresh.
// The cache refresh happens strictly after the commit, outside the lock,
// so no user-facing I/O ever runs while the row lock is held.
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

// Handle executes the borrow workflow for one command.
//
// Any failure before the commit rolls the transaction back in full, so no
// partial state is ever observable. A commit failure surfaces as
// inventory.ErrTransactionFailed and the borrow is void.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	tx, beginErr := h.store.BeginTx(ctx)
	if beginErr != nil {
		return Result{}, beginErr
	}

	book, lockErr := tx.LockBookForUpdate(ctx, command.BookID)
	if lockErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, lockErr
	}

	newQuantity, decideErr := Decide(book)
	if decideErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, decideErr
	}

	if setErr := tx.SetAvailableQuantity(ctx, command.BookID, newQuantity); setErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, setErr
	}

	logID, appendErr := tx.AppendBorrowLog(ctx, command.BookID, command.UserID, command.OccurredAt, command.ReturnBy)
	if appendErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, appendErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		h.rollback(ctx, tx, command)
		return Result{}, commitErr
	}

	h.refreshCache(ctx, command.BookID, newQuantity)

	if h.logger != nil {
		h.logger.Info(logMsgBookBorrowed,
			logAttrBookID, command.BookID.String(),
			logAttrUserID, command.UserID.String(),
			logAttrLogID, logID.String(),
			logAttrRemaining, newQuantity)
	}

	return Result{LogID: logID, RemainingQuantity: newQuantity}, nil
}

// refreshCache updates the availability cache after the commit. Failures
// are logged and swallowed - the committed borrow stands regardless.
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
				logAttrBookID, command.BookID.String())
		}
	}
}
