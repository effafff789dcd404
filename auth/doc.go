// Package auth defines the authentication boundary of the backend.
//
// The coordinator never inspects credentials itself: an Authenticator is
// composed in front of its entry points and turns an opaque credential
// into a principal identifier or rejects it. RoleChecker is the equally
// opaque gate for privileged operations.
package auth
