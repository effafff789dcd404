package rediscache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"libraria/inventory/rediscache"
)

func Test_Unit_NewAvailabilityCache_ShouldFail_WithNilClient(t *testing.T) {
	// act
	_, err := rediscache.NewAvailabilityCache(nil)

	// assert
	assert.ErrorIs(t, err, rediscache.ErrNilRedisClient)
}

func Test_Unit_NewAvailabilityCache_ShouldFail_WithInvalidOptions(t *testing.T) {
	testCases := []struct {
		name        string
		option      rediscache.Option
		expectedErr error
	}{
		{
			name:        "empty key prefix",
			option:      rediscache.WithKeyPrefix(""),
			expectedErr: rediscache.ErrEmptyKeyPrefix,
		},
		{
			name:        "zero ttl",
			option:      rediscache.WithTTL(0),
			expectedErr: rediscache.ErrNonPositiveTTL,
		},
		{
			name:        "negative ttl",
			option:      rediscache.WithTTL(-time.Second),
			expectedErr: rediscache.ErrNonPositiveTTL,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := rediscache.NewAvailabilityCache(&commanderFake{}, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Unit_AvailabilityCache_SetAvailable_ShouldWriteEntryWithPrefixAndTTL(t *testing.T) {
	// arrange
	fake := &commanderFake{}
	cache := givenCache(t, fake, rediscache.WithTTL(30*time.Minute))
	bookID := uuid.New()

	// act
	err := cache.SetAvailable(context.Background(), bookID, 3)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "book_available_count:"+bookID.String(), fake.lastSetKey)
	assert.Equal(t, 3, fake.lastSetValue)
	assert.Equal(t, 30*time.Minute, fake.lastSetTTL)
}

func Test_Unit_AvailabilityCache_GetAvailable_ShouldReturnCachedQuantity(t *testing.T) {
	// arrange
	fake := &commanderFake{getValue: "7"}
	cache := givenCache(t, fake)
	bookID := uuid.New()

	// act
	quantity, ok, err := cache.GetAvailable(context.Background(), bookID)

	// assert
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, quantity)
	assert.Equal(t, "book_available_count:"+bookID.String(), fake.lastGetKey)
}

func Test_Unit_AvailabilityCache_GetAvailable_ShouldReportMiss_WhenKeyIsAbsent(t *testing.T) {
	// arrange
	fake := &commanderFake{getErr: redis.Nil}
	cache := givenCache(t, fake)

	// act
	_, ok, err := cache.GetAvailable(context.Background(), uuid.New())

	// assert - absence is not an error
	assert.NoError(t, err)
	assert.False(t, ok)
}

func Test_Unit_AvailabilityCache_GetAvailable_ShouldReportMiss_WhenClientFails(t *testing.T) {
	// arrange
	fake := &commanderFake{getErr: errors.New("connection refused")}
	cache := givenCache(t, fake)

	// act
	_, ok, err := cache.GetAvailable(context.Background(), uuid.New())

	// assert
	assert.Error(t, err)
	assert.False(t, ok)
}

func Test_Unit_AvailabilityCache_GetAvailable_ShouldReportMiss_WhenEntryIsMalformed(t *testing.T) {
	// arrange
	fake := &commanderFake{getValue: "not-a-number"}
	cache := givenCache(t, fake)

	// act
	_, ok, err := cache.GetAvailable(context.Background(), uuid.New())

	// assert
	assert.NoError(t, err)
	assert.False(t, ok)
}

func Test_Unit_AvailabilityCache_SetAvailable_ShouldReturnError_WhenClientFails(t *testing.T) {
	// arrange
	fake := &commanderFake{setErr: errors.New("connection refused")}
	cache := givenCache(t, fake)

	// act
	err := cache.SetAvailable(context.Background(), uuid.New(), 1)

	// assert
	assert.Error(t, err)
}

func Test_Unit_AvailabilityCache_Forget_ShouldDeleteEntry(t *testing.T) {
	// arrange
	fake := &commanderFake{}
	cache := givenCache(t, fake)
	bookID := uuid.New()

	// act
	err := cache.Forget(context.Background(), bookID)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"book_available_count:" + bookID.String()}, fake.lastDelKeys)
}

func Test_Unit_AvailabilityCache_WithKeyPrefix_ShouldOverrideDefaultPrefix(t *testing.T) {
	// arrange
	fake := &commanderFake{}
	cache := givenCache(t, fake, rediscache.WithKeyPrefix("availability:"))
	bookID := uuid.New()

	// act
	err := cache.SetAvailable(context.Background(), bookID, 2)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "availability:"+bookID.String(), fake.lastSetKey)
}

func givenCache(t *testing.T, fake *commanderFake, options ...rediscache.Option) rediscache.AvailabilityCache {
	t.Helper()

	cache, err := rediscache.NewAvailabilityCache(fake, options...)
	assert.NoError(t, err)

	return cache
}

// commanderFake records the last command of each kind and replies with
// canned results built through the go-redis result constructors.
type commanderFake struct {
	getValue string
	getErr   error
	setErr   error
	delErr   error

	lastGetKey   string
	lastSetKey   string
	lastSetValue any
	lastSetTTL   time.Duration
	lastDelKeys  []string
}

func (f *commanderFake) Get(_ context.Context, key string) *redis.StringCmd {
	f.lastGetKey = key

	if f.getErr != nil {
		cmd := redis.NewStringCmd(context.Background())
		cmd.SetErr(f.getErr)
		return cmd
	}

	return redis.NewStringResult(f.getValue, nil)
}

func (f *commanderFake) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.lastSetKey = key
	f.lastSetValue = value
	f.lastSetTTL = expiration

	if f.setErr != nil {
		cmd := redis.NewStatusCmd(context.Background())
		cmd.SetErr(f.setErr)
		return cmd
	}

	return redis.NewStatusResult("OK", nil)
}

func (f *commanderFake) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.lastDelKeys = keys

	if f.delErr != nil {
		cmd := redis.NewIntCmd(context.Background())
		cmd.SetErr(f.delErr)
		return cmd
	}

	return redis.NewIntResult(int64(len(keys)), nil)
}
