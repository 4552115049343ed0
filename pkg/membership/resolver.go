package membership

import (
	"context"
	"errors"

	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/observability"
)

// Resolution is the outcome of role resolution for one request.
type Resolution struct {
	Role       auth.Role
	SuperAdmin bool
	// HasRole is false for unauthenticated or unauthorized requests.
	HasRole bool
}

// RoleResolver computes the single effective role for a request. The
// precedence is fixed: super-admin flag, then tenant membership, then the
// profile fallback role. Store failures resolve to "no role" (fail-closed);
// the asymmetric fail-open policy belongs to the subscription gate alone.
type RoleResolver struct {
	store Store
	// operatorTenantID is the platform operator's own tenant.
	operatorTenantID int64
	logger           *observability.Logger
}

// NewRoleResolver creates a role resolver backed by the membership store.
func NewRoleResolver(store Store, operatorTenantID int64, logger *observability.Logger) *RoleResolver {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &RoleResolver{
		store:            store,
		operatorTenantID: operatorTenantID,
		logger:           logger,
	}
}

// ResolveRole returns the effective role for the principal within the
// tenant, or ok=false when the request has no role. tenantID may be nil for
// requests outside tenant context (platform admin domain).
func (r *RoleResolver) ResolveRole(ctx context.Context, principal *auth.Principal, tenantID *int64) (auth.Role, bool) {
	res := r.Resolve(ctx, principal, tenantID)
	return res.Role, res.HasRole
}

// Resolve is ResolveRole plus the super-admin flag, which the subscription
// gate needs alongside the role.
func (r *RoleResolver) Resolve(ctx context.Context, principal *auth.Principal, tenantID *int64) Resolution {
	if principal == nil {
		return Resolution{}
	}

	super, err := r.store.GetSuperAdminFlag(ctx, principal.ID)
	if err != nil {
		r.logger.WithError(err).WithField("principal_id", principal.ID).
			Warn("super admin lookup failed, denying role")
		return Resolution{}
	}
	if super {
		// Platform-wide override: super admins are admin everywhere,
		// regardless of any conflicting membership.
		return Resolution{Role: auth.RoleAdmin, SuperAdmin: true, HasRole: true}
	}

	if tenantID != nil {
		m, err := r.store.GetMembership(ctx, principal.ID, *tenantID)
		if err == nil {
			// Operator-tenant admins carry no extra privilege here; the
			// membership role is authoritative for every tenant including
			// the operator's own. Log those resolutions so platform-staff
			// access stays visible in the audit trail review.
			if *tenantID == r.operatorTenantID && m.Role == auth.RoleAdmin {
				r.logger.WithFields(map[string]interface{}{
					"principal_id": principal.ID,
					"tenant_id":    *tenantID,
				}).Debug("operator tenant admin resolved")
			}
			return Resolution{Role: m.Role, HasRole: true}
		}
		if !errors.Is(err, ErrMembershipNotFound) {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"principal_id": principal.ID,
				"tenant_id":    *tenantID,
			}).Warn("membership lookup failed, denying role")
			return Resolution{}
		}
	}

	profileRole, err := r.store.GetProfileRole(ctx, principal.ID)
	if err != nil {
		if !errors.Is(err, ErrNoProfileRole) {
			r.logger.WithError(err).WithField("principal_id", principal.ID).
				Warn("profile role lookup failed, denying role")
		}
		return Resolution{}
	}

	return Resolution{Role: profileRole, HasRole: true}
}
