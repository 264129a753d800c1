package auth

import (
	"errors"
	"fmt"
)

var ErrInvalidRole = errors.New("auth: invalid role")

// Role is a named authorization capability assigned to a user.
type Role uint8

const (
	RoleSuperAdmin Role = iota
	RoleAdmin
	RoleUser
)

// Canonical wire forms stored in the user table and carried in API payloads.
const (
	roleSuperAdminWire = "ROLE_SUPER_ADMIN"
	roleAdminWire      = "ROLE_ADMIN"
	roleUserWire       = "ROLE_USER"
)

// String returns the canonical prefixed wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return roleSuperAdminWire
	case RoleAdmin:
		return roleAdminWire
	case RoleUser:
		return roleUserWire
	}
	return fmt.Sprintf("ROLE_UNKNOWN(%d)", uint8(r))
}

// ParseRole converts a wire form string into a Role. Unrecognized strings
// fail with ErrInvalidRole and are never coerced.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleSuperAdminWire:
		return RoleSuperAdmin, nil
	case roleAdminWire:
		return RoleAdmin, nil
	case roleUserWire:
		return RoleUser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// ParseRoles converts stored role strings into Roles, silently skipping
// any string that does not parse. A stored garbage role must not block
// authorization on the remaining valid roles.
func ParseRoles(stored []string) []Role {
	roles := make([]Role, 0, len(stored))
	for _, s := range stored {
		role, err := ParseRole(s)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

// RoleStrings renders roles back to their wire forms.
func RoleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
