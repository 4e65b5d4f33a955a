package domain

// User represents a user/author entity in the system. The ID is immutable
// after creation; Role holds at most one of the fixed role names.
type User struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	UserName       string `json:"user_name"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
	Role           string `json:"role,omitempty"`
}

// Role names. Order matters for the startup synchronization routine.
const (
	RoleAdmin  = "Admin"
	RoleAuthor = "Author"
	RoleUser   = "User"

	// NoRoleAssigned is the sentinel surfaced for users without a role.
	NoRoleAssigned = "No Role Assigned"
)

// AllRoles contains every valid role name in synchronization order.
var AllRoles = []string{RoleAdmin, RoleAuthor, RoleUser}

// IsValidRole checks if a role name is one of the fixed role set.
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
