package membership

import (
	"errors"

	"github.com/google/uuid"
)

// Roles known to the backend. Role semantics stay inside this package;
// the rest of the system only asks RoleChecker questions.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var (
	// ErrUserNotFound is returned when no account matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyRegistered is returned when registering an email that
	// already has an account.
	ErrEmailAlreadyRegistered = errors.New("email is already registered")

	// ErrInvalidUserData is returned when registration input is unusable.
	ErrInvalidUserData = errors.New("invalid user data")
)

// User is one account. PasswordHash and PasswordSalt are base64-encoded
// Argon2id material.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	PasswordSalt string
	Role         string
}
