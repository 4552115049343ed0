package tenant

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetTenantByWorkspace retrieves a tenant by its workspace identifier
func (s *PostgresStore) GetTenantByWorkspace(ctx context.Context, workspace string) (*Tenant, error) {
	query := `
		SELECT id, name, workspace, active, subscription_status, trial_ends_at, created_at, updated_at
		FROM tenants
		WHERE workspace = $1
	`
	t := &Tenant{}
	var trialEndsAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, workspace).Scan(
		&t.ID, &t.Name, &t.Workspace, &t.Active, &t.SubscriptionStatus,
		&trialEndsAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if trialEndsAt.Valid {
		ends := trialEndsAt.Time
		t.TrialEndsAt = &ends
	}

	return t, nil
}

// GetActivation retrieves the activation and subscription state for a
// tenant. The subscription row is optional: a tenant without one is simply
// not billing-gated.
func (s *PostgresStore) GetActivation(ctx context.Context, tenantID int64) (*Activation, error) {
	query := `
		SELECT t.active, s.current_period_end, COALESCE(s.is_free, false)
		FROM tenants t
		LEFT JOIN subscriptions s ON s.tenant_id = t.id
		WHERE t.id = $1
	`
	act := &Activation{}
	var periodEnd sql.NullTime
	err := s.db.QueryRowContext(ctx, query, tenantID).Scan(&act.Active, &periodEnd, &act.IsFree)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant activation: %w", err)
	}

	if periodEnd.Valid {
		end := periodEnd.Time
		act.SubscriptionEnd = &end
	}

	return act, nil
}
