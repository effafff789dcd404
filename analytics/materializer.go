package analytics

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"libraria/reviews"
)

const (
	logMsgSummaryMaterialized = "books summary materialized"
	logMsgBorrowsMaterialized = "borrows per user materialized"
	logMsgLateMaterialized    = "late returns materialized"
	logMsgReviewsStatsFailed  = "review stats lookup failed, counting zero reviews"
	logAttrError              = "error"
	logAttrBookID             = "book_id"
	logAttrRowCount           = "row_count"
)

// ErrNilDatabaseConnection is returned by the constructor when a database
// handle is nil.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

const (
	truncateBooksSummarySQL   = `TRUNCATE TABLE books_summary RESTART IDENTITY`
	truncateBorrowsPerUserSQL = `TRUNCATE TABLE borrows_per_user RESTART IDENTITY`
	truncateLateReturnsSQL    = `TRUNCATE TABLE late_returns RESTART IDENTITY`

	selectBorrowTotalsSQL = `SELECT b.id AS book_id, COUNT(bl.id) AS total_borrowed
		FROM books b
		LEFT JOIN borrow_logs bl ON bl.book_id = b.id
		GROUP BY b.id`

	selectBorrowsPerUserSQL = `SELECT u.id AS user_id, u.name AS user_name, COUNT(bl.id) AS total_borrows
		FROM users u
		JOIN borrow_logs bl ON bl.user_id = u.id
		GROUP BY u.id, u.name`

	selectLateCandidatesSQL = `SELECT id, book_id, user_id, borrowed_at, return_by, returned_at
		FROM borrow_logs
		WHERE (returned_at IS NULL AND return_by < $1)
		   OR (returned_at IS NOT NULL AND returned_at > return_by)`

	insertBooksSummarySQL = `INSERT INTO books_summary (book_id, total_review, avg_rating, total_borrowed)
		VALUES (:book_id, :total_review, :avg_rating, :total_borrowed)`

	insertBorrowsPerUserSQL = `INSERT INTO borrows_per_user (user_id, user_name, total_borrows)
		VALUES (:user_id, :user_name, :total_borrows)`

	insertLateReturnSQL = `INSERT INTO late_returns (log_id, book_id, user_id, borrowed_at, return_by, returned_at, late_days)
		VALUES (:log_id, :book_id, :user_id, :borrowed_at, :return_by, :returned_at, :late_days)`
)

// ReviewReader is the slice of the review subsystem the books summary needs.
type ReviewReader interface {
	ReviewsForBook(ctx context.Context, bookID uuid.UUID) ([]reviews.Review, error)
}

// Logger interface for operational logging and warnings.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Materializer recomputes the reporting tables from the library database
// and the review subsystem.
type Materializer struct {
	libraryDB   *sqlx.DB
	analyticsDB *sqlx.DB
	reviews     ReviewReader
	logger      Logger
	now         func() time.Time
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger for the Materializer.
func WithLogger(logger Logger) Option {
	return func(m *Materializer) {
		m.logger = logger
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) {
		m.now = now
	}
}

// NewMaterializer creates a new Materializer. The review reader may be
// nil, in which case every book counts zero reviews.
func NewMaterializer(libraryDB *sqlx.DB, analyticsDB *sqlx.DB, reviewReader ReviewReader, opts ...Option) (Materializer, error) {
	if libraryDB == nil || analyticsDB == nil {
		return Materializer{}, ErrNilDatabaseConnection
	}

	m := Materializer{
		libraryDB:   libraryDB,
		analyticsDB: analyticsDB,
		reviews:     reviewReader,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m, nil
}

type borrowTotalRow struct {
	BookID        uuid.UUID `db:"book_id"`
	TotalBorrowed int       `db:"total_borrowed"`
}

type booksSummaryRow struct {
	BookID        uuid.UUID `db:"book_id"`
	TotalReview   int       `db:"total_review"`
	AvgRating     float64   `db:"avg_rating"`
	TotalBorrowed int       `db:"total_borrowed"`
}

type borrowsPerUserRow struct {
	UserID       uuid.UUID `db:"user_id"`
	UserName     string    `db:"user_name"`
	TotalBorrows int       `db:"total_borrows"`
}

type lateCandidateRow struct {
	LogID      uuid.UUID  `db:"id"`
	BookID     uuid.UUID  `db:"book_id"`
	UserID     uuid.UUID  `db:"user_id"`
	BorrowedAt time.Time  `db:"borrowed_at"`
	ReturnBy   time.Time  `db:"return_by"`
	ReturnedAt *time.Time `db:"returned_at"`
}

type lateReturnRow struct {
	LogID      uuid.UUID  `db:"log_id"`
	BookID     uuid.UUID  `db:"book_id"`
	UserID     uuid.UUID  `db:"user_id"`
	BorrowedAt time.Time  `db:"borrowed_at"`
	ReturnBy   time.Time  `db:"return_by"`
	ReturnedAt *time.Time `db:"returned_at"`
	LateDays   int        `db:"late_days"`
}

// BooksSummary reloads the per-book reporting table: borrow totals from
// the borrow log, review count and average rating from the review
// subsystem.
func (m Materializer) BooksSummary(ctx context.Context) error {
	var totals []borrowTotalRow
	if err := m.libraryDB.SelectContext(ctx, &totals, selectBorrowTotalsSQL); err != nil {
		return err
	}

	summaries := make([]booksSummaryRow, 0, len(totals))
	for _, total := range totals {
		reviewCount, avgRating := m.reviewStats(ctx, total.BookID)

		summaries = append(summaries, booksSummaryRow{
			BookID:        total.BookID,
			TotalReview:   reviewCount,
			AvgRating:     avgRating,
			TotalBorrowed: total.TotalBorrowed,
		})
	}

	if _, err := m.analyticsDB.ExecContext(ctx, truncateBooksSummarySQL); err != nil {
		return err
	}

	for _, summary := range summaries {
		if _, err := m.analyticsDB.NamedExecContext(ctx, insertBooksSummarySQL, summary); err != nil {
			return err
		}
	}

	m.logReload(logMsgSummaryMaterialized, len(summaries))

	return nil
}

// BorrowsPerUser reloads the per-user borrow totals.
func (m Materializer) BorrowsPerUser(ctx context.Context) error {
	var rows []borrowsPerUserRow
	if err := m.libraryDB.SelectContext(ctx, &rows, selectBorrowsPerUserSQL); err != nil {
		return err
	}

	if _, err := m.analyticsDB.ExecContext(ctx, truncateBorrowsPerUserSQL); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := m.analyticsDB.NamedExecContext(ctx, insertBorrowsPerUserSQL, row); err != nil {
			return err
		}
	}

	m.logReload(logMsgBorrowsMaterialized, len(rows))

	return nil
}

// LateReturns reloads the overdue-loan table. Only loans late by at
// least one whole day are materialized.
func (m Materializer) LateReturns(ctx context.Context) error {
	now := m.now()

	var candidates []lateCandidateRow
	if err := m.libraryDB.SelectContext(ctx, &candidates, selectLateCandidatesSQL, now); err != nil {
		return err
	}

	lateRows := make([]lateReturnRow, 0, len(candidates))
	for _, candidate := range candidates {
		lateDays := LateDays(candidate.ReturnBy, candidate.ReturnedAt, now)
		if lateDays <= 0 {
			continue
		}

		lateRows = append(lateRows, lateReturnRow{
			LogID:      candidate.LogID,
			BookID:     candidate.BookID,
			UserID:     candidate.UserID,
			BorrowedAt: candidate.BorrowedAt,
			ReturnBy:   candidate.ReturnBy,
			ReturnedAt: candidate.ReturnedAt,
			LateDays:   lateDays,
		})
	}

	if _, err := m.analyticsDB.ExecContext(ctx, truncateLateReturnsSQL); err != nil {
		return err
	}

	for _, row := range lateRows {
		if _, err := m.analyticsDB.NamedExecContext(ctx, insertLateReturnSQL, row); err != nil {
			return err
		}
	}

	m.logReload(logMsgLateMaterialized, len(lateRows))

	return nil
}

// reviewStats computes review count and average rating for one book. A
// failing review subsystem degrades to zero instead of failing the reload.
func (m Materializer) reviewStats(ctx context.Context, bookID uuid.UUID) (int, float64) {
	if m.reviews == nil {
		return 0, 0
	}

	bookReviews, reviewsErr := m.reviews.ReviewsForBook(ctx, bookID)
	if reviewsErr != nil {
		if m.logger != nil {
			m.logger.Warn(logMsgReviewsStatsFailed, logAttrError, reviewsErr.Error(), logAttrBookID, bookID.String())
		}

		return 0, 0
	}

	if len(bookReviews) == 0 {
		return 0, 0
	}

	sum := 0
	for _, review := range bookReviews {
		sum += review.Rating
	}

	avg := float64(sum) / float64(len(bookReviews))

	return len(bookReviews), math.Round(avg*100) / 100
}

func (m Materializer) logReload(msg string, rowCount int) {
	if m.logger != nil {
		m.logger.Info(msg, logAttrRowCount, rowCount)
	}
}
