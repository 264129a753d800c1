package auth

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr error
	}{
		{name: "super admin", input: "ROLE_SUPER_ADMIN", want: RoleSuperAdmin},
		{name: "admin", input: "ROLE_ADMIN", want: RoleAdmin},
		{name: "user", input: "ROLE_USER", want: RoleUser},
		{name: "empty", input: "", wantErr: ErrInvalidRole},
		{name: "unprefixed", input: "ADMIN", wantErr: ErrInvalidRole},
		{name: "lowercase", input: "role_admin", wantErr: ErrInvalidRole},
		{name: "garbage", input: "ROLE_WIZARD", wantErr: ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRole(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleUser} {
		parsed, err := ParseRole(role.String())
		if err != nil {
			t.Fatalf("ParseRole(%q) error = %v", role.String(), err)
		}
		if parsed != role {
			t.Fatalf("round trip of %v returned %v", role, parsed)
		}
	}
}

func TestRoleStringUnknown(t *testing.T) {
	got := Role(42).String()
	if got != "ROLE_UNKNOWN(42)" {
		t.Fatalf("String() = %q, want ROLE_UNKNOWN(42)", got)
	}
}

func TestParseRolesSkipsGarbage(t *testing.T) {
	stored := []string{"ROLE_ADMIN", "corrupted", "", "ROLE_USER", "ROLE_WIZARD"}
	roles := ParseRoles(stored)

	want := []Role{RoleAdmin, RoleUser}
	if len(roles) != len(want) {
		t.Fatalf("ParseRoles() = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("ParseRoles()[%d] = %v, want %v", i, roles[i], want[i])
		}
	}
}

func TestParseRolesEmpty(t *testing.T) {
	if roles := ParseRoles(nil); len(roles) != 0 {
		t.Fatalf("ParseRoles(nil) = %v, want empty", roles)
	}
	if roles := ParseRoles([]string{"junk"}); len(roles) != 0 {
		t.Fatalf("ParseRoles(junk) = %v, want empty", roles)
	}
}

func TestRoleStrings(t *testing.T) {
	got := RoleStrings([]Role{RoleSuperAdmin, RoleUser})
	if len(got) != 2 || got[0] != "ROLE_SUPER_ADMIN" || got[1] != "ROLE_USER" {
		t.Fatalf("RoleStrings() = %v", got)
	}
}
