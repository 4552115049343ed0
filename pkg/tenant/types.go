package tenant

import (
	"context"
	"errors"
	"time"
)

// SubscriptionStatus represents a tenant's billing state
type SubscriptionStatus string

const (
	SubscriptionTrial  SubscriptionStatus = "trial"
	SubscriptionActive SubscriptionStatus = "active"
	SubscriptionLapsed SubscriptionStatus = "lapsed"
)

// Tenant represents a customer organization. Tenants are soft-disabled via
// Active=false, never deleted in normal operation.
type Tenant struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	Workspace          string             `json:"workspace"`
	Active             bool               `json:"active"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Activation is the subset of tenant state the subscription gate consumes.
type Activation struct {
	Active          bool       `json:"active"`
	SubscriptionEnd *time.Time `json:"subscription_end,omitempty"`
	IsFree          bool       `json:"is_free"`
}

// ErrTenantNotFound is returned when no tenant matches the lookup.
var ErrTenantNotFound = errors.New("tenant not found")

// Store provides read access to tenant records. All mutation of tenant data
// happens in external collaborators (billing, onboarding), not here.
type Store interface {
	GetTenantByWorkspace(ctx context.Context, workspace string) (*Tenant, error)
	GetActivation(ctx context.Context, tenantID int64) (*Activation, error)
}
