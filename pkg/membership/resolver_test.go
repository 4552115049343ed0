package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

type stubStore struct {
	membership    *Membership
	membershipErr error
	superAdmin    bool
	superAdminErr error
	profileRole   auth.Role
	profileErr    error
}

func (s *stubStore) GetMembership(ctx context.Context, principalID, tenantID int64) (*Membership, error) {
	if s.membershipErr != nil {
		return nil, s.membershipErr
	}
	return s.membership, nil
}

func (s *stubStore) GetSuperAdminFlag(ctx context.Context, principalID int64) (bool, error) {
	return s.superAdmin, s.superAdminErr
}

func (s *stubStore) GetProfileRole(ctx context.Context, principalID int64) (auth.Role, error) {
	if s.profileErr != nil {
		return "", s.profileErr
	}
	return s.profileRole, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestResolveRolePrecedence(t *testing.T) {
	principal := &auth.Principal{ID: 42, Email: "tech@shop7.in"}

	tests := []struct {
		name     string
		store    *stubStore
		tenantID *int64
		wantRole auth.Role
		wantOK   bool
	}{
		{
			name: "super admin overrides conflicting membership",
			store: &stubStore{
				superAdmin: true,
				membership: &Membership{Role: auth.RoleInstaller},
			},
			tenantID: int64Ptr(7),
			wantRole: auth.RoleAdmin,
			wantOK:   true,
		},
		{
			name: "membership role beats profile fallback",
			store: &stubStore{
				membership:  &Membership{Role: auth.RoleCoordinator},
				profileRole: auth.RoleAdmin,
			},
			tenantID: int64Ptr(7),
			wantRole: auth.RoleCoordinator,
			wantOK:   true,
		},
		{
			name: "profile fallback when no membership",
			store: &stubStore{
				membershipErr: ErrMembershipNotFound,
				profileRole:   auth.RoleAccountant,
			},
			tenantID: int64Ptr(7),
			wantRole: auth.RoleAccountant,
			wantOK:   true,
		},
		{
			name: "no tenant context falls through to profile",
			store: &stubStore{
				profileRole: auth.RoleManager,
			},
			tenantID: nil,
			wantRole: auth.RoleManager,
			wantOK:   true,
		},
		{
			name: "no membership and no profile role",
			store: &stubStore{
				membershipErr: ErrMembershipNotFound,
				profileErr:    ErrNoProfileRole,
			},
			tenantID: int64Ptr(7),
			wantOK:   false,
		},
		{
			name: "super admin lookup failure denies",
			store: &stubStore{
				superAdminErr: errors.New("db down"),
				membership:    &Membership{Role: auth.RoleAdmin},
			},
			tenantID: int64Ptr(7),
			wantOK:   false,
		},
		{
			name: "membership lookup failure denies even with profile role",
			store: &stubStore{
				membershipErr: errors.New("db down"),
				profileRole:   auth.RoleAdmin,
			},
			tenantID: int64Ptr(7),
			wantOK:   false,
		},
		{
			name: "profile role lookup failure denies",
			store: &stubStore{
				membershipErr: ErrMembershipNotFound,
				profileErr:    errors.New("db down"),
			},
			tenantID: int64Ptr(7),
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewRoleResolver(tt.store, 1, nil)
			role, ok := resolver.ResolveRole(context.Background(), principal, tt.tenantID)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRole, role)
			}
		})
	}
}

func TestResolveNilPrincipal(t *testing.T) {
	resolver := NewRoleResolver(&stubStore{superAdmin: true}, 1, nil)
	res := resolver.Resolve(context.Background(), nil, int64Ptr(7))
	assert.False(t, res.HasRole)
	assert.False(t, res.SuperAdmin)
}

func TestResolveSuperAdminFlagPropagates(t *testing.T) {
	resolver := NewRoleResolver(&stubStore{superAdmin: true}, 1, nil)
	res := resolver.Resolve(context.Background(), &auth.Principal{ID: 1}, nil)
	assert.True(t, res.SuperAdmin)
	assert.Equal(t, auth.RoleAdmin, res.Role)

	resolver = NewRoleResolver(&stubStore{membership: &Membership{Role: auth.RoleAdmin}}, 1, nil)
	res = resolver.Resolve(context.Background(), &auth.Principal{ID: 1}, int64Ptr(1))
	assert.False(t, res.SuperAdmin, "tenant admin is not a super admin")
}

func TestResolveOperatorTenantAdmin(t *testing.T) {
	store := &stubStore{membership: &Membership{Role: auth.RoleAdmin}}
	resolver := NewRoleResolver(store, 1, nil)

	// An admin membership in the operator's own tenant resolves exactly like
	// any other tenant admin: membership role, no platform-wide override.
	res := resolver.Resolve(context.Background(), &auth.Principal{ID: 9}, int64Ptr(1))
	assert.True(t, res.HasRole)
	assert.Equal(t, auth.RoleAdmin, res.Role)
	assert.False(t, res.SuperAdmin)
}
