package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"libraria/auth"
)

const minPasswordLen = 8

const (
	logMsgLoginRejected   = "login rejected"
	logMsgUserRegistered  = "user registered"
	logMsgLogoutFailed    = "logout failed"
	logAttrError          = "error"
	logAttrEmail          = "email"
	logAttrUserID         = "user_id"
	logAttrRole           = "role"
)

// Store is the account storage contract of the Service.
type Store interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) error
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
}

// SessionIssuer is the session side of the auth boundary the Service
// needs: issuing a token on login and revoking it on logout.
type SessionIssuer interface {
	Issue(ctx context.Context, principal auth.PrincipalID) (string, error)
	Revoke(ctx context.Context, credential string) error
}

// Logger interface for operational logging and warnings.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Service implements login, logout, registration, and the role gate.
// It satisfies auth.RoleChecker.
type Service struct {
	store    Store
	sessions SessionIssuer
	logger   Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service with optional configuration.
func NewService(store Store, sessions SessionIssuer, opts ...Option) Service {
	service := Service{
		store:    store,
		sessions: sessions,
	}

	for _, opt := range opts {
		opt(&service)
	}

	return service
}

// Login verifies the password and issues a session token.
// Unknown email and wrong password are indistinguishable to the caller:
// both yield auth.ErrInvalidCredential.
func (s Service) Login(ctx context.Context, email string, password string) (string, error) {
	user, getErr := s.store.GetByEmail(ctx, email)
	if getErr != nil {
		if errors.Is(getErr, ErrUserNotFound) {
			s.logRejectedLogin(email)
			return "", auth.ErrInvalidCredential
		}

		return "", getErr
	}

	matches, verifyErr := verifyPassword(password, user.PasswordSalt, user.PasswordHash)
	if verifyErr != nil {
		return "", verifyErr
	}

	if !matches {
		s.logRejectedLogin(email)
		return "", auth.ErrInvalidCredential
	}

	return s.sessions.Issue(ctx, user.ID)
}

// Logout revokes the session token.
func (s Service) Logout(ctx context.Context, token string) error {
	if revokeErr := s.sessions.Revoke(ctx, token); revokeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgLogoutFailed, logAttrError, revokeErr.Error())
		}

		return revokeErr
	}

	return nil
}

// Register creates a new account with the given role.
// The admin gate sits at the transport layer; this method only owns the
// data rules: usable email, minimum password length, known role.
func (s Service) Register(ctx context.Context, email string, name string, password string, role string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || len(password) < minPasswordLen {
		return User{}, ErrInvalidUserData
	}

	if role != RoleMember && role != RoleAdmin {
		return User{}, ErrInvalidUserData
	}

	hash, salt, hashErr := hashPassword(password)
	if hashErr != nil {
		return User{}, hashErr
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
	}

	if createErr := s.store.Create(ctx, user); createErr != nil {
		return User{}, createErr
	}

	if s.logger != nil {
		s.logger.Info(logMsgUserRegistered, logAttrUserID, user.ID.String(), logAttrRole, role)
	}

	return user, nil
}

// HasRole reports whether the principal holds the role. It satisfies
// auth.RoleChecker.
func (s Service) HasRole(ctx context.Context, principal auth.PrincipalID, role string) (bool, error) {
	storedRole, roleErr := s.store.RoleOf(ctx, principal)
	if roleErr != nil {
		if errors.Is(roleErr, ErrUserNotFound) {
			return false, nil
		}

		return false, roleErr
	}

	return storedRole == role, nil
}

func (s Service) logRejectedLogin(email string) {
	if s.logger != nil {
		s.logger.Info(logMsgLoginRejected, logAttrEmail, email)
	}
}
