package postgresengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"libraria/inventory"
	"libraria/inventory/postgresengine/internal/adapters"
)

// Tx is the PostgreSQL unit of work for a single borrow or return. It
// implements inventory.Tx on top of a database transaction obtained from
// InventoryStore.BeginTx.
//
// LockBookForUpdate issues SELECT ... FOR UPDATE on the book row, which
// is the sole serialization point of the borrow/return flow: a second
// locker of the same book blocks until this transaction commits or rolls
// back, then observes the committed state.
type Tx struct {
	tx    adapters.DBTx
	store InventoryStore
}

// LockBookForUpdate reads the book row under an exclusive row-level lock
// held until Commit or Rollback.
// Returns inventory.ErrBookNotFound if the book does not exist.
func (t *Tx) LockBookForUpdate(ctx context.Context, bookID uuid.UUID) (inventory.Book, error) {
	sqlQuery, buildErr := t.store.buildSelectBookQuery(bookID, true)
	if buildErr != nil {
		return inventory.Book{}, buildErr
	}

	start := time.Now()
	row := t.tx.QueryRow(ctx, sqlQuery)
	book, scanErr := scanBook(row)
	t.store.logQueryWithDuration(sqlQuery, logActionLockBook, time.Since(start))

	if scanErr != nil {
		if isNoRows(scanErr) {
			return inventory.Book{}, inventory.ErrBookNotFound
		}

		if t.store.logger != nil {
			t.store.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error(), logAttrBookID, bookID.String())
		}

		return inventory.Book{}, errors.Join(inventory.ErrScanningDBRowFailed, scanErr)
	}

	t.store.logOperation(logMsgBookLocked, logAttrBookID, bookID.String())

	return book, nil
}

// SetAvailableQuantity writes the available quantity of the book
// unconditionally. The caller must hold the row lock for this book, so
// the write cannot race with another mutation of the same row.
func (t *Tx) SetAvailableQuantity(ctx context.Context, bookID uuid.UUID, quantity int) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(t.store.booksTableName).
		Set(goqu.Record{colAvailableQuantity: quantity}).
		Where(goqu.C(colID).Eq(goqu.V(bookID.String())))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error(), logAttrBookID, bookID.String())
		}

		return errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := t.exec(ctx, sqlQuery, logActionSetQuantity)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return inventory.ErrBookNotFound
	}

	t.store.logOperation(logMsgQuantityUpdated, logAttrBookID, bookID.String(), logAttrQuantity, quantity)

	return nil
}

// AppendBorrowLog inserts a new outstanding loan row with an
// application-generated identifier and returns that identifier.
func (t *Tx) AppendBorrowLog(
	ctx context.Context,
	bookID uuid.UUID,
	userID uuid.UUID,
	borrowedAt time.Time,
	returnBy time.Time,
) (uuid.UUID, error) {

	logID := uuid.New()

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(t.store.borrowLogsTableName).
		Rows(goqu.Record{
			colID:         logID.String(),
			colBookID:     bookID.String(),
			colUserID:     userID.String(),
			colBorrowedAt: inventory.ToTimestamp(borrowedAt),
			colReturnBy:   inventory.ToTimestamp(returnBy),
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error(), logAttrBookID, bookID.String())
		}

		return uuid.Nil, errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	if _, execErr := t.exec(ctx, sqlQuery, logActionAppendBorrowLog); execErr != nil {
		return uuid.Nil, execErr
	}

	t.store.logOperation(logMsgBorrowLogAppended, logAttrLogID, logID.String(), logAttrBookID, bookID.String())

	return logID, nil
}

// CloseBorrowLog sets the returned-at timestamp of an outstanding log.
// The statement is guarded by returned_at IS NULL, so a log can only be
// closed once even when two returns race past the earlier checks.
// Returns inventory.ErrBorrowLogAlreadyClosed when the guard matches no row.
func (t *Tx) CloseBorrowLog(ctx context.Context, logID uuid.UUID, returnedAt time.Time) error {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(t.store.borrowLogsTableName).
		Set(goqu.Record{colReturnedAt: inventory.ToTimestamp(returnedAt)}).
		Where(goqu.And(
			goqu.C(colID).Eq(goqu.V(logID.String())),
			goqu.C(colReturnedAt).IsNull(),
		))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error(), logAttrLogID, logID.String())
		}

		return errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := t.exec(ctx, sqlQuery, logActionCloseBorrowLog)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		return inventory.ErrBorrowLogAlreadyClosed
	}

	t.store.logOperation(logMsgBorrowLogClosed, logAttrLogID, logID.String())

	return nil
}

// Commit makes the unit of work durable and releases the row lock.
func (t *Tx) Commit(ctx context.Context) error {
	if commitErr := t.tx.Commit(ctx); commitErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgCommitFailed, logAttrError, commitErr.Error())
		}

		return errors.Join(inventory.ErrTransactionFailed, commitErr)
	}

	return nil
}

// Rollback voids the unit of work and releases the row lock. Rolling back
// an already finished transaction is a no-op, so deferring Rollback after
// a successful Commit is safe.
func (t *Tx) Rollback(ctx context.Context) error {
	if rollbackErr := t.tx.Rollback(ctx); rollbackErr != nil {
		if t.store.logger != nil {
			t.store.logger.Warn(logMsgRollbackFailed, logAttrError, rollbackErr.Error())
		}

		return errors.Join(inventory.ErrTransactionFailed, rollbackErr)
	}

	return nil
}

// exec runs a statement inside the transaction and returns rows affected.
func (t *Tx) exec(ctx context.Context, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	result, execErr := t.tx.Exec(ctx, sqlQuery)
	t.store.logQueryWithDuration(sqlQuery, action, time.Since(start))

	if execErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, errors.Join(inventory.ErrExecutingStatementFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		if t.store.logger != nil {
			t.store.logger.Error(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		}

		return 0, errors.Join(inventory.ErrExecutingStatementFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}
