package membership

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

// PostgresStore implements Store and CredentialVerifier using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetMembership retrieves the membership for a (principal, tenant) pair.
func (s *PostgresStore) GetMembership(ctx context.Context, principalID, tenantID int64) (*Membership, error) {
	query := `
		SELECT id, tenant_id, principal_id, role, is_primary_admin, created_at
		FROM tenant_memberships
		WHERE principal_id = $1 AND tenant_id = $2
	`
	m := &Membership{}
	err := s.db.QueryRowContext(ctx, query, principalID, tenantID).Scan(
		&m.ID, &m.TenantID, &m.PrincipalID, &m.Role, &m.IsPrimaryAdmin, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

// GetSuperAdminFlag reports whether the principal holds platform-wide
// administrative rights, independent of any tenant.
func (s *PostgresStore) GetSuperAdminFlag(ctx context.Context, principalID int64) (bool, error) {
	query := `SELECT is_super_admin FROM principals WHERE id = $1`
	var super bool
	err := s.db.QueryRowContext(ctx, query, principalID).Scan(&super)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get super admin flag: %w", err)
	}
	return super, nil
}

// GetProfileRole retrieves the principal's profile-level role attribute.
func (s *PostgresStore) GetProfileRole(ctx context.Context, principalID int64) (auth.Role, error) {
	query := `SELECT profile_role FROM principals WHERE id = $1`
	var profileRole sql.NullString
	err := s.db.QueryRowContext(ctx, query, principalID).Scan(&profileRole)
	if err == sql.ErrNoRows {
		return "", ErrNoProfileRole
	}
	if err != nil {
		return "", fmt.Errorf("failed to get profile role: %w", err)
	}

	if !profileRole.Valid || profileRole.String == "" {
		return "", ErrNoProfileRole
	}
	role, ok := auth.ParseRole(profileRole.String)
	if !ok {
		return "", ErrNoProfileRole
	}
	return role, nil
}

// VerifyCredentials checks an email/password pair against the principals
// table. The error is ErrInvalidCredentials for any mismatch, so callers
// cannot distinguish an unknown email from a wrong password.
func (s *PostgresStore) VerifyCredentials(ctx context.Context, email, password string) (*auth.Principal, error) {
	query := `
		SELECT id, email, full_name, is_active, password_hash, created_at
		FROM principals
		WHERE email = $1 AND is_active = true
	`
	p := &auth.Principal{}
	var passwordHash string
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.FullName, &p.IsActive, &passwordHash, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up principal: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p, nil
}
