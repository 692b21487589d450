package identity

import (
	"strings"

	"github.com/moodtrack/backend/internal/domain/shared"
)

// Role is the privilege level of a user
type Role string

const (
	RoleAdmin       Role = "admin"       // Manages users via the admin panel
	RoleParticipant Role = "participant" // Records own mood entries
)

// Roles lists the assignable roles in display order
var Roles = []Role{RoleParticipant, RoleAdmin}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleParticipant:
		return r, nil
	default:
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be admin or participant")
	}
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}
