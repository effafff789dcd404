// Package redistoken implements auth.Authenticator on Redis sessions.
//
// A login issues a random uuid token and stores the principal under
// session:<token> with a TTL; resolving a credential is a single GET.
// Tokens expire server-side, so a lost logout self-heals.
package redistoken
