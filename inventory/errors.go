package inventory

import "errors"

var (
	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrBorrowLogNotFound is returned when the referenced borrow log does not exist.
	ErrBorrowLogNotFound = errors.New("borrow log not found")

	// ErrBorrowLogAlreadyClosed is returned when closing a borrow log whose
	// returned-at timestamp is already set. Returned-at is set exactly once.
	ErrBorrowLogAlreadyClosed = errors.New("borrow log is already closed")

	// ErrTransactionFailed is returned when the storage layer fails to begin,
	// commit, or roll back the unit of work enclosing a borrow or return.
	// The operation is void in that case - no partial state is observable.
	ErrTransactionFailed = errors.New("inventory transaction failed")
)

var (
	// ErrNilDatabaseConnection is returned by store constructors when the
	// supplied database handle is nil.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableNameSupplied is returned by store options when an empty
	// table name is supplied.
	ErrEmptyTableNameSupplied = errors.New("empty table name supplied")

	// ErrBuildingQueryFailed wraps failures to render a statement to SQL.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrQueryingStoreFailed wraps database errors during reads.
	ErrQueryingStoreFailed = errors.New("querying inventory store failed")

	// ErrScanningDBRowFailed wraps failures to scan a database row.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrExecutingStatementFailed wraps database errors during writes.
	ErrExecutingStatementFailed = errors.New("executing sql statement failed")
)
