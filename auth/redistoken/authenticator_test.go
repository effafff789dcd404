package redistoken_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraria/auth"
	"libraria/auth/redistoken"
)

func Test_Unit_NewAuthenticator_ShouldFail_WithNilClient(t *testing.T) {
	// act
	_, err := redistoken.NewAuthenticator(nil)

	// assert
	assert.ErrorIs(t, err, redistoken.ErrNilRedisClient)
}

func Test_Unit_Authenticator_Issue_ShouldStoreSessionUnderPrefixedToken(t *testing.T) {
	// arrange
	fake := &commanderFake{}
	authenticator := givenAuthenticator(t, fake, redistoken.WithSessionTTL(time.Hour))
	principal := uuid.New()

	// act
	token, err := authenticator.Issue(context.Background(), principal)

	// assert
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "session:"+token, fake.lastSetKey)
	assert.Equal(t, principal.String(), fake.lastSetValue)
	assert.Equal(t, time.Hour, fake.lastSetTTL)
}

func Test_Unit_Authenticator_Issue_ShouldFail_WhenStoreIsUnavailable(t *testing.T) {
	// arrange
	fake := &commanderFake{setErr: errors.New("connection refused")}
	authenticator := givenAuthenticator(t, fake)

	// act
	_, err := authenticator.Issue(context.Background(), uuid.New())

	// assert
	assert.ErrorIs(t, err, redistoken.ErrIssuingSessionFailed)
}

func Test_Unit_Authenticator_Resolve_ShouldReturnPrincipal_ForKnownToken(t *testing.T) {
	// arrange
	principal := uuid.New()
	fake := &commanderFake{getValue: principal.String()}
	authenticator := givenAuthenticator(t, fake)

	// act
	resolved, err := authenticator.Resolve(context.Background(), "some-token")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, principal, resolved)
	assert.True(t, strings.HasPrefix(fake.lastGetKey, "session:"))
}

func Test_Unit_Authenticator_Resolve_ShouldRejectWithInvalidCredential_WhenTokenIsUnknown(t *testing.T) {
	// arrange
	fake := &commanderFake{getErr: redis.Nil}
	authenticator := givenAuthenticator(t, fake)

	// act
	_, err := authenticator.Resolve(context.Background(), "expired-token")

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func Test_Unit_Authenticator_Resolve_ShouldRejectWithInvalidCredential_WhenCredentialIsEmpty(t *testing.T) {
	// arrange
	authenticator := givenAuthenticator(t, &commanderFake{})

	// act
	_, err := authenticator.Resolve(context.Background(), "")

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func Test_Unit_Authenticator_Resolve_ShouldRejectWithInvalidCredential_WhenStoreIsUnavailable(t *testing.T) {
	// arrange
	fake := &commanderFake{getErr: errors.New("connection refused")}
	authenticator := givenAuthenticator(t, fake)

	// act
	_, err := authenticator.Resolve(context.Background(), "some-token")

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func Test_Unit_Authenticator_Resolve_ShouldRejectWithInvalidCredential_WhenEntryIsCorrupt(t *testing.T) {
	// arrange
	fake := &commanderFake{getValue: "not-a-uuid"}
	authenticator := givenAuthenticator(t, fake)

	// act
	_, err := authenticator.Resolve(context.Background(), "some-token")

	// assert
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func Test_Unit_Authenticator_Revoke_ShouldDeleteSession(t *testing.T) {
	// arrange
	fake := &commanderFake{}
	authenticator := givenAuthenticator(t, fake)

	// act
	err := authenticator.Revoke(context.Background(), "some-token")

	// assert
	assert.NoError(t, err)
	require.Len(t, fake.lastDelKeys, 1)
	assert.Equal(t, "session:some-token", fake.lastDelKeys[0])
}

func givenAuthenticator(t *testing.T, fake *commanderFake, options ...redistoken.Option) redistoken.Authenticator {
	t.Helper()

	authenticator, err := redistoken.NewAuthenticator(fake, options...)
	assert.NoError(t, err)

	return authenticator
}

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
