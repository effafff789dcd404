package reviews_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraria/reviews"
)

func Test_Unit_BuildReview_ShouldAcceptRatingsWithinRange(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		// act
		review, err := reviews.BuildReview(uuid.New(), rating, "fine", time.Now())

		// assert
		assert.NoError(t, err)
		assert.Equal(t, rating, review.Rating)
	}
}

func Test_Unit_BuildReview_ShouldRejectRatingsOutsideRange(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 100} {
		// act
		_, err := reviews.BuildReview(uuid.New(), rating, "fine", time.Now())

		// assert
		assert.ErrorIs(t, err, reviews.ErrInvalidRating)
	}
}

func Test_Unit_BuildReview_ShouldRejectMissingReviewer(t *testing.T) {
	// act
	_, err := reviews.BuildReview(uuid.Nil, 3, "fine", time.Now())

	// assert
	assert.ErrorIs(t, err, reviews.ErrMissingReviewer)
}

func Test_Unit_BuildReview_ShouldNormalizeTimestampToUTC(t *testing.T) {
	// arrange
	offset := time.FixedZone("UTC+7", 7*3600)
	createdAt := time.Date(2025, 3, 1, 10, 30, 0, 123456789, offset)

	// act
	review, err := reviews.BuildReview(uuid.New(), 4, "fine", createdAt)

	// assert
	require.NoError(t, err)
	assert.Equal(t, time.UTC, review.CreatedAt.Location())
	assert.True(t, review.CreatedAt.Equal(createdAt.Truncate(time.Microsecond)))
}

func Test_Unit_MemoryStore_ShouldReturnReviewsInArrivalOrder(t *testing.T) {
	// arrange
	store := reviews.NewMemoryStore()
	bookID := uuid.New()

	first, _ := reviews.BuildReview(uuid.New(), 5, "loved it", time.Now())
	second, _ := reviews.BuildReview(uuid.New(), 2, "not for me", time.Now())

	require.NoError(t, store.AppendReview(context.Background(), bookID, first))
	require.NoError(t, store.AppendReview(context.Background(), bookID, second))

	// act
	stored, err := store.ReviewsForBook(context.Background(), bookID)

	// assert
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "loved it", stored[0].Comment)
	assert.Equal(t, "not for me", stored[1].Comment)
}

func Test_Unit_MemoryStore_ShouldReturnEmptySlice_ForUnknownBook(t *testing.T) {
	// arrange
	store := reviews.NewMemoryStore()

	// act
	stored, err := store.ReviewsForBook(context.Background(), uuid.New())

	// assert
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func Test_Unit_MemoryStore_ShouldIsolateBooks(t *testing.T) {
	// arrange
	store := reviews.NewMemoryStore()
	firstBook := uuid.New()
	secondBook := uuid.New()

	review, _ := reviews.BuildReview(uuid.New(), 4, "fine", time.Now())
	require.NoError(t, store.AppendReview(context.Background(), firstBook, review))

	// act
	stored, err := store.ReviewsForBook(context.Background(), secondBook)

	// assert
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func Test_Unit_MemoryStore_ShouldNotLeakInternalSlice(t *testing.T) {
	// arrange
	store := reviews.NewMemoryStore()
	bookID := uuid.New()

	review, _ := reviews.BuildReview(uuid.New(), 4, "fine", time.Now())
	require.NoError(t, store.AppendReview(context.Background(), bookID, review))

	// act - mutate the returned slice
	stored, _ := store.ReviewsForBook(context.Background(), bookID)
	stored[0].Comment = "tampered"

	// assert
	fresh, _ := store.ReviewsForBook(context.Background(), bookID)
	assert.Equal(t, "fine", fresh[0].Comment)
}
