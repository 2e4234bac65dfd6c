package roles

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

var ErrInvalidRole = errors.New("invalid role: must be ADMIN, MEMBER, or VIEWER")

// Normalize parses a free-text role from the request boundary into one
// of the three canonical roles, case-insensitively.
func Normalize(input string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(input))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", ErrInvalidRole
	}
}

// Rank orders roles for display. Permission checks compare roles
// explicitly; rank is never a permission threshold.
func Rank(role Role) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleMember:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// Title renders a role for display, e.g. "Admin".
func Title(role Role) string {
	s := string(role)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
