package redistoken

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"libraria/auth"
)

const (
	defaultKeyPrefix  = "session:"
	defaultSessionTTL = time.Hour

	logMsgSessionStoreFailed  = "failed to store session"
	logMsgSessionLookupFailed = "failed to look up session"
	logMsgSessionRevokeFailed = "failed to revoke session"
	logMsgSessionCorrupt      = "session entry is not a principal id"
	logAttrError              = "error"
	logAttrKey                = "key"
)

var (
	// ErrNilRedisClient is returned by the constructor when the supplied
	// Redis client is nil.
	ErrNilRedisClient = errors.New("redis client must not be nil")

	// ErrEmptyKeyPrefix is returned when an empty key prefix is supplied.
	ErrEmptyKeyPrefix = errors.New("empty key prefix supplied")

	// ErrNonPositiveTTL is returned when a zero or negative TTL is supplied.
	ErrNonPositiveTTL = errors.New("session ttl must be positive")

	// ErrIssuingSessionFailed wraps storage errors while issuing a session.
	ErrIssuingSessionFailed = errors.New("issuing session failed")
)

// Commander is the subset of redis.Cmdable the authenticator needs.
// *redis.Client satisfies it.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Logger interface for warnings and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Authenticator keeps login sessions in Redis and implements auth.Authenticator.
type Authenticator struct {
	client     Commander
	keyPrefix  string
	sessionTTL time.Duration
	logger     Logger
}

// Option defines a functional option for configuring Authenticator.
type Option func(*Authenticator) error

// WithKeyPrefix sets the key prefix for session entries.
func WithKeyPrefix(prefix string) Option {
	return func(a *Authenticator) error {
		if prefix == "" {
			return ErrEmptyKeyPrefix
		}

		a.keyPrefix = prefix

		return nil
	}
}

// WithSessionTTL sets the expiry applied to every session.
func WithSessionTTL(ttl time.Duration) Option {
	return func(a *Authenticator) error {
		if ttl <= 0 {
			return ErrNonPositiveTTL
		}

		a.sessionTTL = ttl

		return nil
	}
}

// WithLogger sets the logger for the Authenticator.
func WithLogger(logger Logger) Option {
	return func(a *Authenticator) error {
		a.logger = logger
		return nil
	}
}

// NewAuthenticator creates a new Authenticator with optional configuration.
func NewAuthenticator(client Commander, options ...Option) (Authenticator, error) {
	if client == nil {
		return Authenticator{}, ErrNilRedisClient
	}

	a := Authenticator{
		client:     client,
		keyPrefix:  defaultKeyPrefix,
		sessionTTL: defaultSessionTTL,
	}

	for _, option := range options {
		if err := option(&a); err != nil {
			return Authenticator{}, err
		}
	}

	return a, nil
}

// Issue creates a session for the principal and returns the opaque token.
func (a Authenticator) Issue(ctx context.Context, principal auth.PrincipalID) (string, error) {
	token := uuid.NewString()
	key := a.key(token)

	if setErr := a.client.Set(ctx, key, principal.String(), a.sessionTTL).Err(); setErr != nil {
		if a.logger != nil {
			a.logger.Error(logMsgSessionStoreFailed, logAttrError, setErr.Error(), logAttrKey, key)
		}

		return "", errors.Join(ErrIssuingSessionFailed, setErr)
	}

	return token, nil
}

// Resolve turns a token into the principal it was issued for.
// An unknown, expired, or unreadable token yields auth.ErrInvalidCredential.
func (a Authenticator) Resolve(ctx context.Context, credential string) (auth.PrincipalID, error) {
	if credential == "" {
		return uuid.Nil, auth.ErrInvalidCredential
	}

	key := a.key(credential)

	value, getErr := a.client.Get(ctx, key).Result()
	if getErr != nil {
		if !errors.Is(getErr, redis.Nil) && a.logger != nil {
			a.logger.Warn(logMsgSessionLookupFailed, logAttrError, getErr.Error(), logAttrKey, key)
		}

		return uuid.Nil, auth.ErrInvalidCredential
	}

	principal, parseErr := uuid.Parse(value)
	if parseErr != nil {
		if a.logger != nil {
			a.logger.Error(logMsgSessionCorrupt, logAttrError, parseErr.Error(), logAttrKey, key)
		}

		return uuid.Nil, auth.ErrInvalidCredential
	}

	return principal, nil
}

// Revoke deletes a session. Revoking an unknown token is not an error.
func (a Authenticator) Revoke(ctx context.Context, credential string) error {
	key := a.key(credential)

	if delErr := a.client.Del(ctx, key).Err(); delErr != nil {
		if a.logger != nil {
			a.logger.Warn(logMsgSessionRevokeFailed, logAttrError, delErr.Error(), logAttrKey, key)
		}

		return delErr
	}

	return nil
}

func (a Authenticator) key(token string) string {
	return a.keyPrefix + token
}
