package httpapi

import (
	"context"
	"net/http"
	"strings"

	"libraria/auth"
	"libraria/membership"
)

type contextKey int

const (
	principalContextKey contextKey = iota
	tokenContextKey
)

const bearerPrefix = "Bearer "

// requireAuth resolves the bearer token to a principal and stores both
// in the request context. A missing or unresolvable token is rejected
// with 401 before any handler runs.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, auth.ErrInvalidCredential)
			return
		}

		principal, resolveErr := s.authenticator.Resolve(r.Context(), token)
		if resolveErr != nil {
			s.writeError(w, r, resolveErr)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		ctx = context.WithValue(ctx, tokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates a route on the admin role. It must sit inside
// requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := principalFrom(r.Context())

		isAdmin, checkErr := s.roles.HasRole(r.Context(), principal, membership.RoleAdmin)
		if checkErr != nil {
			s.writeError(w, r, checkErr)
			return
		}

		if !isAdmin {
			s.writeJSON(w, http.StatusForbidden, errorResponse{
				Code:    codeForbidden,
				Message: "admin role required",
			})

			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

func principalFrom(ctx context.Context) auth.PrincipalID {
	principal, _ := ctx.Value(principalContextKey).(auth.PrincipalID)
	return principal
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
