package listbooks

import (
	"context"

	"github.com/google/uuid"

	"libraria/inventory"
	"libraria/reviews"
)

const (
	queryType = "ListBooks"

	logMsgReviewsLookupFailed = "reviews lookup failed, listing without reviews"
	logAttrError              = "error"
	logAttrBookID             = "book_id"
)

// Store defines the interface needed by the QueryHandler for inventory
// store operations.
type Store interface {
	ListBooks(ctx context.Context) ([]inventory.Book, error)
}

// AvailabilityCache defines the interface needed by the QueryHandler for
// cached availability lookups.
type AvailabilityCache interface {
	GetAvailable(ctx context.Context, bookID uuid.UUID) (int, bool, error)
}

// ReviewReader defines the interface needed by the QueryHandler to attach
// reviews to the listing.
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

// QueryHandler orchestrates the listing workflow. The book rows are
// authoritative; the cache only accelerates the displayed availability
// and any cache miss or error falls back to the stored quantity.
type QueryHandler struct {
	store   Store
	cache   AvailabilityCache
	reviews ReviewReader
	logger  Logger
}

// Option configures a QueryHandler.
type Option func(*QueryHandler)

// WithLogger sets the logger for the QueryHandler.
func WithLogger(logger Logger) Option {
	return func(h *QueryHandler) {
		h.logger = logger
	}
}

// NewQueryHandler creates a new QueryHandler with optional configuration.
// Cache and review reader may be nil; the listing then serves stored
// quantities without reviews.
func NewQueryHandler(store Store, cache AvailabilityCache, reviewReader ReviewReader, opts ...Option) QueryHandler {
	h := QueryHandler{
		store:   store,
		cache:   cache,
		reviews: reviewReader,
	}

	for _, opt := range opts {
		opt(&h)
	}

	return h
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (h QueryHandler) QueryType() string {
	return queryType
}

// Handle executes the listing workflow.
func (h QueryHandler) Handle(ctx context.Context) (Books, error) {
	books, listErr := h.store.ListBooks(ctx)
	if listErr != nil {
		return Books{}, listErr
	}

	infos := make([]BookInfo, 0, len(books))

	for _, book := range books {
		// Status is derived from the same quantity the caller sees, so a
		// cached count and its status never contradict each other.
		displayed := book
		displayed.AvailableQuantity = h.displayedAvailability(ctx, book)

		infos = append(infos, BookInfo{
			BookID:            book.ID,
			Title:             book.Title,
			Author:            book.Author,
			Year:              book.Year,
			Category:          book.Category,
			TotalQuantity:     book.TotalQuantity,
			AvailableQuantity: displayed.AvailableQuantity,
			Status:            displayed.Status(),
			Reviews:           h.reviewsFor(ctx, book.ID),
		})
	}

	return Books{Books: infos, Count: len(infos)}, nil
}

// displayedAvailability prefers the cached count and falls back to the
// stored quantity on a miss or cache error.
func (h QueryHandler) displayedAvailability(ctx context.Context, book inventory.Book) int {
	if h.cache == nil {
		return book.AvailableQuantity
	}

	cached, ok, _ := h.cache.GetAvailable(ctx, book.ID)
	if !ok {
		return book.AvailableQuantity
	}

	return cached
}

// reviewsFor attaches the book's reviews; a failing review subsystem
// degrades the listing instead of failing it.
func (h QueryHandler) reviewsFor(ctx context.Context, bookID uuid.UUID) []reviews.Review {
	if h.reviews == nil {
		return nil
	}

	bookReviews, reviewsErr := h.reviews.ReviewsForBook(ctx, bookID)
	if reviewsErr != nil {
		if h.logger != nil {
			h.logger.Warn(logMsgReviewsLookupFailed, logAttrError, reviewsErr.Error(), logAttrBookID, bookID.String())
		}

		return nil
	}

	return bookReviews
}
