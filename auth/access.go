package auth

import (
	"context"
	"errors"
)

var ErrAccessControlInvalid = errors.New("auth: access control requires a role finder and token verifier")

// Denial reasons. DecideForCookie deliberately collapses every failure
// to the generic reason so an unauthenticated caller cannot distinguish
// a missing cookie from a bad signature or an unknown user.
const (
	reasonNoMatchingRole = "no matching role"
	reasonUserNotFound   = "user not found"
	reasonUnauthorized   = "unauthorized"
)

// Decision is the binary outcome of an authorization check. It is never
// partial and never cached; every request produces a fresh Decision.
type Decision struct {
	granted bool
	reason  string
}

// Authorized returns the granting decision.
func Authorized() Decision { return Decision{granted: true} }

// Unauthorized returns a denying decision with the given reason.
func Unauthorized(reason string) Decision { return Decision{reason: reason} }

// Granted reports whether access was granted.
func (d Decision) Granted() bool { return d.granted }

// Reason returns the denial reason; empty for a granting decision.
func (d Decision) Reason() string { return d.reason }

// AccessControl evaluates role-based authorization. It is stateless:
// each entry point resolves whatever identity material it is handed
// (roles, email, or raw cookie header) down to a role intersection.
type AccessControl struct {
	roles  RoleFinder
	tokens TokenVerifier
}

// NewAccessControl wires the user store collaborator and token verifier.
func NewAccessControl(roles RoleFinder, tokens TokenVerifier) (*AccessControl, error) {
	if roles == nil || tokens == nil {
		return nil, ErrAccessControlInvalid
	}
	return &AccessControl{roles: roles, tokens: tokens}, nil
}

// Decide authorizes iff at least one held role is in the required set.
// Empty held roles always deny.
func (a *AccessControl) Decide(held, required []Role) Decision {
	requiredSet := make(map[Role]struct{}, len(required))
	for _, r := range required {
		requiredSet[r] = struct{}{}
	}

	for _, r := range held {
		if _, ok := requiredSet[r]; ok {
			return Authorized()
		}
	}

	return Unauthorized(reasonNoMatchingRole)
}

// DecideForSubject resolves the subject's stored roles through the user
// store, then decides. A failed lookup or an empty role set denies; it
// is never retried, since a transparent retry could mask a bypass.
// Stored role strings that fail to parse are skipped, not fatal.
func (a *AccessControl) DecideForSubject(ctx context.Context, email string, required []Role) Decision {
	stored, err := a.roles.FindRolesByEmail(ctx, email)
	if err != nil || len(stored) == 0 {
		return Unauthorized(reasonUserNotFound)
	}

	return a.Decide(ParseRoles(stored), required)
}

// DecideForCookie resolves the identity behind a raw Cookie header
// (extract token, verify signature and expiry, read the subject claim)
// and then decides for that subject. Any failure along the chain
// collapses to a single opaque denial.
func (a *AccessControl) DecideForCookie(ctx context.Context, cookieHeader string, required []Role) Decision {
	token, err := ExtractSessionToken(cookieHeader)
	if err != nil {
		return Unauthorized(reasonUnauthorized)
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		return Unauthorized(reasonUnauthorized)
	}

	if decision := a.DecideForSubject(ctx, claims.Subject, required); !decision.Granted() {
		return Unauthorized(reasonUnauthorized)
	}
	return Authorized()
}
