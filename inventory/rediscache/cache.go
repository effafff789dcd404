package rediscache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "book_available_count:"
	defaultEntryTTL  = time.Hour

	logMsgCacheSetFailed    = "failed to write availability cache entry"
	logMsgCacheGetFailed    = "failed to read availability cache entry"
	logMsgCacheDeleteFailed = "failed to delete availability cache entry"
	logMsgCacheEntryInvalid = "availability cache entry is not a number"
	logAttrError            = "error"
	logAttrKey              = "key"
)

var (
	// ErrNilRedisClient is returned by the constructor when the supplied
	// Redis client is nil.
	ErrNilRedisClient = errors.New("redis client must not be nil")

	// ErrEmptyKeyPrefix is returned when an empty key prefix is supplied.
	ErrEmptyKeyPrefix = errors.New("empty key prefix supplied")

	// ErrNonPositiveTTL is returned when a zero or negative TTL is supplied.
	ErrNonPositiveTTL = errors.New("entry ttl must be positive")
)

// Commander is the subset of redis.Cmdable the availability cache needs.
// *redis.Client satisfies it.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Logger interface for cache warnings and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AvailabilityCache caches the available quantity per book in Redis.
type AvailabilityCache struct {
	client    Commander
	keyPrefix string
	entryTTL  time.Duration
	logger    Logger
}

// Option defines a functional option for configuring AvailabilityCache.
type Option func(*AvailabilityCache) error

// WithKeyPrefix sets the key prefix for cache entries.
func WithKeyPrefix(prefix string) Option {
	return func(c *AvailabilityCache) error {
		if prefix == "" {
			return ErrEmptyKeyPrefix
		}

		c.keyPrefix = prefix

		return nil
	}
}

// WithTTL sets the expiry applied to every cache entry.
func WithTTL(ttl time.Duration) Option {
	return func(c *AvailabilityCache) error {
		if ttl <= 0 {
			return ErrNonPositiveTTL
		}

		c.entryTTL = ttl

		return nil
	}
}

// WithLogger sets the logger for the AvailabilityCache.
func WithLogger(logger Logger) Option {
	return func(c *AvailabilityCache) error {
		c.logger = logger
		return nil
	}
}

// NewAvailabilityCache creates a new AvailabilityCache with optional configuration.
func NewAvailabilityCache(client Commander, options ...Option) (AvailabilityCache, error) {
	if client == nil {
		return AvailabilityCache{}, ErrNilRedisClient
	}

	c := AvailabilityCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		entryTTL:  defaultEntryTTL,
	}

	for _, option := range options {
		if err := option(&c); err != nil {
			return AvailabilityCache{}, err
		}
	}

	return c, nil
}

// SetAvailable writes the available quantity for a book with the
// configured TTL. Failures are logged and returned; callers on the write
// path treat them as best effort.
func (c AvailabilityCache) SetAvailable(ctx context.Context, bookID uuid.UUID, quantity int) error {
	key := c.key(bookID)

	if setErr := c.client.Set(ctx, key, quantity, c.entryTTL).Err(); setErr != nil {
		if c.logger != nil {
			c.logger.Warn(logMsgCacheSetFailed, logAttrError, setErr.Error(), logAttrKey, key)
		}

		return setErr
	}

	return nil
}

// GetAvailable reads the cached available quantity for a book. The ok
// return value reports whether a usable entry was found; absence is not
// an error. On a miss of any kind the caller should fall back to the
// inventory store.
func (c AvailabilityCache) GetAvailable(ctx context.Context, bookID uuid.UUID) (int, bool, error) {
	key := c.key(bookID)

	value, getErr := c.client.Get(ctx, key).Result()
	if getErr != nil {
		if errors.Is(getErr, redis.Nil) {
			return 0, false, nil
		}

		if c.logger != nil {
			c.logger.Warn(logMsgCacheGetFailed, logAttrError, getErr.Error(), logAttrKey, key)
		}

		return 0, false, getErr
	}

	quantity, parseErr := strconv.Atoi(value)
	if parseErr != nil {
		if c.logger != nil {
			c.logger.Warn(logMsgCacheEntryInvalid, logAttrError, parseErr.Error(), logAttrKey, key)
		}

		return 0, false, nil
	}

	return quantity, true, nil
}

// Forget removes the cache entry for a book. A subsequent read falls back
// to the inventory store and repopulates the entry.
func (c AvailabilityCache) Forget(ctx context.Context, bookID uuid.UUID) error {
	key := c.key(bookID)

	if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
		if c.logger != nil {
			c.logger.Warn(logMsgCacheDeleteFailed, logAttrError, delErr.Error(), logAttrKey, key)
		}

		return delErr
	}

	return nil
}

func (c AvailabilityCache) key(bookID uuid.UUID) string {
	return c.keyPrefix + bookID.String()
}
