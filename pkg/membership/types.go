package membership

import (
	"context"
	"errors"
	"time"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

// Membership associates a principal with a tenant and a role. At most one
// active membership exists per (principal, tenant) pair; the store enforces
// this with a unique index.
type Membership struct {
	ID             int64     `json:"id"`
	TenantID       int64     `json:"tenant_id"`
	PrincipalID    int64     `json:"principal_id"`
	Role           auth.Role `json:"role"`
	IsPrimaryAdmin bool      `json:"is_primary_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

var (
	// ErrMembershipNotFound is returned when the principal has no
	// membership in the tenant.
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrNoProfileRole is returned when the principal has no profile-level
	// fallback role.
	ErrNoProfileRole = errors.New("no profile role")

	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store provides read access to membership data.
type Store interface {
	GetMembership(ctx context.Context, principalID, tenantID int64) (*Membership, error)
	GetSuperAdminFlag(ctx context.Context, principalID int64) (bool, error)
	// GetProfileRole returns the principal's profile-level role attribute,
	// the legacy fallback for principals without a tenant membership.
	GetProfileRole(ctx context.Context, principalID int64) (auth.Role, error)
}

// CredentialVerifier checks login credentials against stored principals.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (*auth.Principal, error)
}
