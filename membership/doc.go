// Package membership manages user accounts: registration, credential
// verification, and roles.
//
// Accounts live in PostgreSQL; login sessions are issued through the
// auth boundary. Passwords are stored as salted Argon2id hashes and
// never leave this package in any other form.
package membership
