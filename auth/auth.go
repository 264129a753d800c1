// Package auth implements the credential and session authority for the
// service: password hashing and verification, signed session tokens,
// anti-forgery token generation, session cookie handling, and role-based
// access decisions.
//
// Every operation is a stateless, request-scoped computation. The only
// shared state is the read-only signing/CSRF secret held by each service
// value, so all types here are safe for concurrent use once constructed.
package auth

import "context"

// PasswordHasher derives and verifies one-way credential hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenIssuer mints signed session tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// TokenVerifier validates a raw session token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (SessionClaims, error)
}

// RoleFinder resolves the stored role strings held by a subject. It is
// the slice of the user store the access evaluator depends on.
type RoleFinder interface {
	FindRolesByEmail(ctx context.Context, email string) ([]string, error)
}
