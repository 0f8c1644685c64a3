package identity

import "time"

// Role tags an operator for attribution on audited actions. The engine keeps
// no session state; the role travels with the user record only.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOps       Role = "OPS"
	RoleMandatary Role = "MANDATARY"
)

var validRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleOps:       true,
	RoleMandatary: true,
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// User is an operator record. Every other entity references users only by ID
// through its attribution fields (CreatedBy, ActorUserID, ...).
type User struct {
	ID          string
	Name        string
	Email       string
	Role        Role
	LastLoginAt *time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Role Role
}
