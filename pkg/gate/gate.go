// Package gate decides whether a tenant's users are temporarily restricted
// to a minimal route set because the tenant is deactivated or its
// subscription has elapsed.
//
// Unlike the permission matrix, the gate fails OPEN: if activation data
// cannot be fetched, the request proceeds unrestricted. Billing gating is
// an availability concern, not a security boundary, and a flaky store must
// not lock every tenant out.
package gate

import (
	"context"
	"time"

	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/observability"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

// RestrictedPaths is the minimal set a restricted tenant may still reach:
// the tenant settings page (to submit reactivation evidence) and the
// informational page. Tenant admins are deliberately not exempt.
var RestrictedPaths = []string{"/settings", "/about"}

// Status is the gate decision for a request.
type Status struct {
	Restricted   bool     `json:"restricted"`
	RestrictedTo []string `json:"restricted_to,omitempty"`
}

// Allows reports whether the path is reachable under this status.
func (s Status) Allows(path string) bool {
	if !s.Restricted {
		return true
	}
	for _, p := range s.RestrictedTo {
		if p == path {
			return true
		}
	}
	return false
}

// Gate evaluates tenant activation and subscription state per request.
// Nothing is cached across requests; staleness is bounded by one request's
// latency.
type Gate struct {
	store   tenant.Store
	logger  *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// New creates a subscription gate backed by the tenant store.
func New(store tenant.Store, logger *observability.Logger, metrics *observability.Metrics) *Gate {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Gate{
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func unrestricted() Status {
	return Status{}
}

func restricted() Status {
	return Status{Restricted: true, RestrictedTo: RestrictedPaths}
}

// Check returns the gate status for the request. t may be nil for requests
// outside tenant context, which are never gated here (page-level
// authorization handles the platform domain). superAdmin short-circuits to
// unrestricted. role is recorded for observability only: within a tenant
// even admin is gated.
func (g *Gate) Check(ctx context.Context, t *tenant.Tenant, role auth.Role, superAdmin bool) Status {
	if t == nil || superAdmin {
		g.count("unrestricted")
		return unrestricted()
	}

	act, err := g.store.GetActivation(ctx, t.ID)
	if err != nil {
		// Fail open: gating is availability-over-strictness.
		g.logger.WithError(err).WithFields(map[string]interface{}{
			"tenant_id": t.ID,
			"role":      string(role),
		}).Warn("activation lookup failed, gate failing open")
		g.count("fail_open")
		return unrestricted()
	}

	if !act.Active {
		g.count("restricted")
		return restricted()
	}

	if act.SubscriptionEnd != nil && act.SubscriptionEnd.Before(g.now()) && !act.IsFree {
		g.count("restricted")
		return restricted()
	}

	g.count("unrestricted")
	return unrestricted()
}

func (g *Gate) count(outcome string) {
	if g.metrics != nil {
		g.metrics.GateRestrictionsTotal.WithLabelValues(outcome).Inc()
	}
}
