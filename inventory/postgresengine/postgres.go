package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"libraria/inventory"
	"libraria/inventory/postgresengine/internal/adapters"
)

const (
	defaultBooksTableName      = "books"
	defaultBorrowLogsTableName = "borrow_logs"

	logMsgBuildQueryFailed    = "failed to build sql query"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitFailed        = "failed to commit transaction"
	logMsgRollbackFailed      = "failed to roll back transaction"
	logMsgBooksListed         = "books listed"
	logMsgBookLocked          = "book row locked"
	logMsgQuantityUpdated     = "available quantity updated"
	logMsgBorrowLogAppended   = "borrow log appended"
	logMsgBorrowLogClosed     = "borrow log closed"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "inventory store operation: "
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrBookID             = "book_id"
	logAttrLogID              = "log_id"
	logAttrBookCount          = "book_count"
	logAttrQuantity           = "quantity"
	logAttrDurationMS         = "duration_ms"
	logActionGetBook          = "get book"
	logActionGetBorrowLog     = "get borrow log"
	logActionListBooks        = "list books"
	logActionLockBook         = "lock book"
	logActionSetQuantity      = "set available quantity"
	logActionAppendBorrowLog  = "append borrow log"
	logActionCloseBorrowLog   = "close borrow log"
	colID                     = "id"
	colTitle                  = "title"
	colAuthor                 = "author"
	colYear                   = "year"
	colCategory               = "category"
	colTotalQuantity          = "total_quantity"
	colAvailableQuantity      = "available_quantity"
	colBookID                 = "book_id"
	colUserID                 = "user_id"
	colBorrowedAt             = "borrowed_at"
	colReturnBy               = "return_by"
	colReturnedAt             = "returned_at"
	dialectPostgres           = "postgres"
)

type sqlQueryString = string

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// InventoryStore is the PostgreSQL-backed book inventory and borrow log
// storage. It leverages a database adapter and supports customizable
// logging and table configuration.
type InventoryStore struct {
	db                  adapters.DBAdapter
	booksTableName      string
	borrowLogsTableName string
	logger              Logger
}

// Option defines a functional option for configuring InventoryStore.
type Option func(*InventoryStore) error

// WithBooksTableName sets the books table name for the InventoryStore.
func WithBooksTableName(tableName string) Option {
	return func(s *InventoryStore) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		s.booksTableName = tableName

		return nil
	}
}

// WithBorrowLogsTableName sets the borrow logs table name for the InventoryStore.
func WithBorrowLogsTableName(tableName string) Option {
	return func(s *InventoryStore) error {
		if tableName == "" {
			return inventory.ErrEmptyTableNameSupplied
		}

		s.borrowLogsTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the InventoryStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *InventoryStore) error {
		s.logger = logger
		return nil
	}
}

// NewInventoryStoreFromPGXPool creates a new InventoryStore using a pgx Pool with optional configuration.
func NewInventoryStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (InventoryStore, error) {
	if db == nil {
		return InventoryStore{}, inventory.ErrNilDatabaseConnection
	}

	return newInventoryStore(adapters.NewPGXAdapter(db), options...)
}

// NewInventoryStoreFromSQLDB creates a new InventoryStore using a sql.DB with optional configuration.
func NewInventoryStoreFromSQLDB(db *sql.DB, options ...Option) (InventoryStore, error) {
	if db == nil {
		return InventoryStore{}, inventory.ErrNilDatabaseConnection
	}

	return newInventoryStore(adapters.NewSQLAdapter(db), options...)
}

// NewInventoryStoreFromSQLX creates a new InventoryStore using a sqlx.DB with optional configuration.
func NewInventoryStoreFromSQLX(db *sqlx.DB, options ...Option) (InventoryStore, error) {
	if db == nil {
		return InventoryStore{}, inventory.ErrNilDatabaseConnection
	}

	return newInventoryStore(adapters.NewSQLXAdapter(db), options...)
}

func newInventoryStore(db adapters.DBAdapter, options ...Option) (InventoryStore, error) {
	s := InventoryStore{
		db:                  db,
		booksTableName:      defaultBooksTableName,
		borrowLogsTableName: defaultBorrowLogsTableName,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return InventoryStore{}, err
		}
	}

	return s, nil
}

// GetBook retrieves a single book by its identifier.
// Returns inventory.ErrBookNotFound if no such book exists.
func (s InventoryStore) GetBook(ctx context.Context, bookID uuid.UUID) (inventory.Book, error) {
	sqlQuery, buildErr := s.buildSelectBookQuery(bookID, false)
	if buildErr != nil {
		return inventory.Book{}, buildErr
	}

	start := time.Now()
	row := s.db.QueryRow(ctx, sqlQuery)
	book, scanErr := scanBook(row)
	s.logQueryWithDuration(sqlQuery, logActionGetBook, time.Since(start))

	if scanErr != nil {
		if isNoRows(scanErr) {
			return inventory.Book{}, inventory.ErrBookNotFound
		}

		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error(), logAttrBookID, bookID.String())
		}

		return inventory.Book{}, errors.Join(inventory.ErrScanningDBRowFailed, scanErr)
	}

	return book, nil
}

// GetBorrowLog retrieves a single borrow log entry by its identifier.
// Returns inventory.ErrBorrowLogNotFound if no such entry exists.
func (s InventoryStore) GetBorrowLog(ctx context.Context, logID uuid.UUID) (inventory.BorrowLog, error) {
	sqlQuery, buildErr := s.buildSelectBorrowLogQuery(logID)
	if buildErr != nil {
		return inventory.BorrowLog{}, buildErr
	}

	start := time.Now()
	row := s.db.QueryRow(ctx, sqlQuery)
	borrowLog, scanErr := scanBorrowLog(row)
	s.logQueryWithDuration(sqlQuery, logActionGetBorrowLog, time.Since(start))

	if scanErr != nil {
		if isNoRows(scanErr) {
			return inventory.BorrowLog{}, inventory.ErrBorrowLogNotFound
		}

		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error(), logAttrLogID, logID.String())
		}

		return inventory.BorrowLog{}, errors.Join(inventory.ErrScanningDBRowFailed, scanErr)
	}

	return borrowLog, nil
}

// ListBooks retrieves all books ordered by title.
func (s InventoryStore) ListBooks(ctx context.Context) ([]inventory.Book, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.booksTableName).
		Select(colID, colTitle, colAuthor, colYear, colCategory, colTotalQuantity, colAvailableQuantity).
		Order(goqu.I(colTitle).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error())
		}

		return nil, errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionListBooks, duration)

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, errors.Join(inventory.ErrQueryingStoreFailed, queryErr)
	}
	defer s.closeRows(rows)

	books := make([]inventory.Book, 0)

	for rows.Next() {
		book, scanErr := scanBook(rows)
		if scanErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
			}

			return nil, errors.Join(inventory.ErrScanningDBRowFailed, scanErr)
		}

		books = append(books, book)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, errors.Join(inventory.ErrQueryingStoreFailed, rowsErr)
	}

	s.logOperation(
		logMsgBooksListed,
		logAttrBookCount, len(books),
		logAttrDurationMS, s.durationToMilliseconds(duration))

	return books, nil
}

// BeginTx starts the unit of work for a borrow or return. The returned
// transaction must be finished with Commit or Rollback.
func (s InventoryStore) BeginTx(ctx context.Context) (inventory.Tx, error) {
	dbTx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBeginTxFailed, logAttrError, beginErr.Error())
		}

		return nil, errors.Join(inventory.ErrTransactionFailed, beginErr)
	}

	return &Tx{tx: dbTx, store: s}, nil
}

func (s InventoryStore) buildSelectBookQuery(bookID uuid.UUID, forUpdate bool) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.booksTableName).
		Select(colID, colTitle, colAuthor, colYear, colCategory, colTotalQuantity, colAvailableQuantity).
		Where(goqu.C(colID).Eq(goqu.V(bookID.String())))

	if forUpdate {
		selectStmt = selectStmt.ForUpdate(exp.Wait)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error(), logAttrBookID, bookID.String())
		}

		return "", errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s InventoryStore) buildSelectBorrowLogQuery(logID uuid.UUID) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.borrowLogsTableName).
		Select(colID, colBookID, colUserID, colBorrowedAt, colReturnBy, colReturnedAt).
		Where(goqu.C(colID).Eq(goqu.V(logID.String())))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildQueryFailed, logAttrError, toSQLErr.Error(), logAttrLogID, logID.String())
		}

		return "", errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// closeRows safely closes database rows and logs any errors.
func (s InventoryStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s InventoryStore) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s InventoryStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s InventoryStore) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBook(row scannable) (inventory.Book, error) {
	var book inventory.Book

	scanErr := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.Category,
		&book.TotalQuantity,
		&book.AvailableQuantity,
	)
	if scanErr != nil {
		return inventory.Book{}, scanErr
	}

	return book, nil
}

func scanBorrowLog(row scannable) (inventory.BorrowLog, error) {
	var borrowLog inventory.BorrowLog

	scanErr := row.Scan(
		&borrowLog.ID,
		&borrowLog.BookID,
		&borrowLog.UserID,
		&borrowLog.BorrowedAt,
		&borrowLog.ReturnBy,
		&borrowLog.ReturnedAt,
	)
	if scanErr != nil {
		return inventory.BorrowLog{}, scanErr
	}

	return borrowLog, nil
}

// isNoRows reports whether err signals an empty result from either the
// pgx or the database/sql scan path.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
