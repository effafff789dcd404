package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidCredential is returned when a credential cannot be resolved
// to a principal. The caller learns nothing beyond that.
var ErrInvalidCredential = errors.New("invalid credential")

// PrincipalID identifies an authenticated user.
type PrincipalID = uuid.UUID

// Authenticator resolves an opaque credential to a principal.
type Authenticator interface {
	Resolve(ctx context.Context, credential string) (PrincipalID, error)
}

// RoleChecker reports whether a principal holds a role. Role semantics
// are owned by the membership subsystem and opaque to callers.
type RoleChecker interface {
	HasRole(ctx context.Context, principal PrincipalID, role string) (bool, error)
}
