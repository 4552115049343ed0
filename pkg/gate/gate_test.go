package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

type stubTenantStore struct {
	activation *tenant.Activation
	err        error
}

func (s *stubTenantStore) GetTenantByWorkspace(ctx context.Context, workspace string) (*tenant.Tenant, error) {
	return nil, tenant.ErrTenantNotFound
}

func (s *stubTenantStore) GetActivation(ctx context.Context, tenantID int64) (*tenant.Activation, error) {
	return s.activation, s.err
}

func newTestGate(store tenant.Store, now time.Time) *Gate {
	g := New(store, nil, nil)
	g.now = func() time.Time { return now }
	return g
}

func TestGateCheck(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	shop := &tenant.Tenant{ID: 7, Workspace: "shop7"}

	tests := []struct {
		name           string
		store          *stubTenantStore
		tenant         *tenant.Tenant
		role           auth.Role
		superAdmin     bool
		wantRestricted bool
	}{
		{
			name:           "active tenant with future subscription",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: true, SubscriptionEnd: &future}},
			tenant:         shop,
			role:           auth.RoleInstaller,
			wantRestricted: false,
		},
		{
			name:           "deactivated tenant restricts even admin",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: false}},
			tenant:         shop,
			role:           auth.RoleAdmin,
			wantRestricted: true,
		},
		{
			name:           "expired subscription restricts",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: true, SubscriptionEnd: &past}},
			tenant:         shop,
			role:           auth.RoleManager,
			wantRestricted: true,
		},
		{
			name:           "expired but free plan stays open",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: true, SubscriptionEnd: &past, IsFree: true}},
			tenant:         shop,
			role:           auth.RoleManager,
			wantRestricted: false,
		},
		{
			name:           "no subscription end means never expires",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: true}},
			tenant:         shop,
			role:           auth.RoleAccountant,
			wantRestricted: false,
		},
		{
			name:           "super admin bypasses a deactivated tenant",
			store:          &stubTenantStore{activation: &tenant.Activation{Active: false}},
			tenant:         shop,
			role:           auth.RoleAdmin,
			superAdmin:     true,
			wantRestricted: false,
		},
		{
			name:           "nil tenant is never gated",
			store:          &stubTenantStore{err: errors.New("should not be called")},
			tenant:         nil,
			role:           auth.RoleAdmin,
			wantRestricted: false,
		},
		{
			name:           "store failure fails open",
			store:          &stubTenantStore{err: errors.New("db down")},
			tenant:         shop,
			role:           auth.RoleInstaller,
			wantRestricted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGate(tt.store, now)
			status := g.Check(context.Background(), tt.tenant, tt.role, tt.superAdmin)
			assert.Equal(t, tt.wantRestricted, status.Restricted)
			if tt.wantRestricted {
				assert.Equal(t, RestrictedPaths, status.RestrictedTo)
			} else {
				assert.Empty(t, status.RestrictedTo)
			}
		})
	}
}

func TestStatusAllows(t *testing.T) {
	open := Status{}
	assert.True(t, open.Allows("/dashboard"))
	assert.True(t, open.Allows("/anything"))

	blocked := Status{Restricted: true, RestrictedTo: RestrictedPaths}
	assert.True(t, blocked.Allows("/settings"))
	assert.True(t, blocked.Allows("/about"))
	assert.False(t, blocked.Allows("/dashboard"))
	assert.False(t, blocked.Allows("/settings/billing"))
}

func TestGateExpiryBoundary(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	shop := &tenant.Tenant{ID: 7, Workspace: "shop7"}

	// At the exact instant of expiry the subscription is still honored;
	// restriction begins strictly after SubscriptionEnd.
	exact := now
	g := newTestGate(&stubTenantStore{activation: &tenant.Activation{Active: true, SubscriptionEnd: &exact}}, now)
	status := g.Check(context.Background(), shop, auth.RoleAdmin, false)
	assert.False(t, status.Restricted)
}
