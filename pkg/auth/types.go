package auth

import "time"

// Principal represents an authenticated human identity. Its lifecycle is
// owned by the identity layer; this package only reads it.
type Principal struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email,omitempty"`
	FullName  string     `json:"full_name,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
}

// Role represents a tenant-scoped role
type Role string

const (
	RoleAdmin       Role = "admin"       // Full access within a tenant
	RoleManager     Role = "manager"     // Manages work orders and staff
	RoleCoordinator Role = "coordinator" // Schedules and tracks service jobs
	RoleInstaller   Role = "installer"   // Field technician, own jobs only
	RoleAccountant  Role = "accountant"  // Billing and export access
)

// roleRanks orders roles for relative-privilege comparisons. Installer and
// accountant share rank 2 on purpose: neither outranks the other, and the
// rank is never used as a permission-matrix substitute.
var roleRanks = map[Role]int{
	RoleAdmin:       5,
	RoleManager:     4,
	RoleCoordinator: 3,
	RoleInstaller:   2,
	RoleAccountant:  2,
}

// AllRoles returns every known role.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleCoordinator, RoleInstaller, RoleAccountant}
}

// ParseRole returns the Role for a string, or false if unknown.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleRanks[r]
	return r, ok
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the numeric rank of a role, or 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsHigherRole reports whether a strictly outranks b. It is irreflexive and
// never true in both directions for the same pair. This is only a
// relative-privilege check; route access always goes through the permission
// matrix.
func IsHigherRole(a, b Role) bool {
	return roleRanks[a] > roleRanks[b]
}
