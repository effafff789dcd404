package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the inventory store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	QueryRow(ctx context.Context, query string) DBRow
	Exec(ctx context.Context, query string) (DBResult, error)
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx defines the interface for operations inside a database transaction.
type DBTx interface {
	Query(ctx context.Context, query string) (DBRows, error)
	QueryRow(ctx context.Context, query string) DBRow
	Exec(ctx context.Context, query string) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBRow defines the interface for a single query result row.
type DBRow interface {
	Scan(dest ...any) error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
