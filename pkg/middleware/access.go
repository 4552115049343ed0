package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fieldforge/servicedesk/pkg/async"
	"github.com/fieldforge/servicedesk/pkg/audit"
	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/contextkeys"
	"github.com/fieldforge/servicedesk/pkg/gate"
	"github.com/fieldforge/servicedesk/pkg/membership"
	"github.com/fieldforge/servicedesk/pkg/observability"
	"github.com/fieldforge/servicedesk/pkg/rbac"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

const (
	// LoginPath is where unauthenticated page requests are sent.
	LoginPath = "/login"
	// LandingPath is where authenticated-but-denied page requests are sent.
	LandingPath = "/dashboard"
)

// publicPaths are reachable without a session. Everything else goes through
// the full pipeline.
var publicPaths = map[string]bool{
	"/":                 true,
	"/login":            true,
	"/api/auth/login":   true,
	"/api/auth/logout":  true,
	"/api/auth/session": true,
}

// restrictedAPIPaths are the API routes still reachable while a tenant is
// billing-restricted, mirroring the page-level minimal set: tenant settings
// and the reactivation submission.
var restrictedAPIPaths = map[string]bool{
	"/api/tenant/settings":   true,
	"/api/tenant/reactivate": true,
}

// AccessControl enforces the full per-request decision chain: tenant
// lookup, role resolution, subscription gating, and the permission matrix.
// Page denials redirect; API denials answer JSON with no data payload and
// no internal error detail.
type AccessControl struct {
	tenants  tenant.Store
	resolver *tenant.Resolver
	roles    *membership.RoleResolver
	gate     *gate.Gate
	checker  *rbac.Checker
	audits   audit.Recorder
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewAccessControl wires the access enforcement middleware. audits may be
// nil to disable the audit trail.
func NewAccessControl(
	tenants tenant.Store,
	resolver *tenant.Resolver,
	roles *membership.RoleResolver,
	g *gate.Gate,
	checker *rbac.Checker,
	audits audit.Recorder,
	logger *observability.Logger,
	metrics *observability.Metrics,
) *AccessControl {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &AccessControl{
		tenants:  tenants,
		resolver: resolver,
		roles:    roles,
		gate:     g,
		checker:  checker,
		audits:   audits,
		logger:   logger,
		metrics:  metrics,
	}
}

// Handler wraps next with access enforcement.
func (ac *AccessControl) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if ac.skipEnforcement(path) || publicPaths[path] {
			next.ServeHTTP(w, r)
			return
		}

		isAPI := strings.HasPrefix(path, "/api/")
		surface := "page"
		if isAPI {
			surface = "api"
		}

		principal := PrincipalFromContext(r)
		if principal == nil {
			ac.decide(surface, "unauthenticated")
			ac.denyUnauthenticated(w, r, isAPI)
			return
		}

		t := ac.lookupTenant(r)

		var tenantID *int64
		if t != nil {
			tenantID = &t.ID
		}
		res := ac.roles.Resolve(r.Context(), principal, tenantID)
		if !res.HasRole {
			// Authenticated but no role anywhere: the landing page would
			// deny again, so the login page is the only sane target.
			ac.decide(surface, "deny")
			ac.record(r, audit.EventAccessDenied, principal, t, "", "no role")
			ac.denyUnauthenticated(w, r, isAPI)
			return
		}

		status := ac.gate.Check(r.Context(), t, res.Role, res.SuperAdmin)
		if !ac.gateAllows(status, path, isAPI) {
			ac.decide(surface, "deny")
			ac.record(r, audit.EventGateRestricted, principal, t, res.Role, "workspace restricted")
			if isAPI {
				ac.rejectJSON(w, http.StatusForbidden, "workspace restricted")
				return
			}
			http.Redirect(w, r, ac.restrictedLanding(status, res.Role), http.StatusFound)
			return
		}

		allowed := false
		if isAPI {
			allowed = ac.checker.CheckAPIAccess(res.Role, path)
		} else {
			allowed = ac.checker.CheckPageAccess(res.Role, path)
		}
		if !allowed {
			ac.decide(surface, "deny")
			ac.record(r, audit.EventAccessDenied, principal, t, res.Role, "route not permitted")
			if isAPI {
				ac.rejectJSON(w, http.StatusForbidden, "forbidden")
				return
			}
			if path == LandingPath {
				// Never bounce the landing page onto itself.
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			http.Redirect(w, r, LandingPath, http.StatusFound)
			return
		}

		ac.decide(surface, "allow")
		ctx := contextkeys.WithRole(r.Context(), res.Role)
		if t != nil {
			ctx = contextkeys.WithTenant(ctx, t)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restrictedLanding picks the page a billing-restricted user is sent to:
// the first path of the restricted set their role can actually open
// (settings for a tenant admin, the informational page otherwise). The
// matrix must agree with the gate here or the two denials would bounce the
// user between each other's redirect targets forever. Falls back to the
// login page for a role that can open none of the restricted set.
func (ac *AccessControl) restrictedLanding(status gate.Status, role auth.Role) string {
	for _, p := range status.RestrictedTo {
		if ac.checker.CheckPageAccess(role, p) {
			return p
		}
	}
	return LoginPath
}

// skipEnforcement reports whether the path is outside the authorization
// pipeline. API paths bypass host-based tenant resolution (they carry the
// workspace header themselves) but are always enforced here.
func (ac *AccessControl) skipEnforcement(path string) bool {
	if strings.HasPrefix(path, "/api/") {
		return false
	}
	return ac.resolver.Bypass(path)
}

// lookupTenant loads the tenant for the resolved workspace, or nil when the
// request has no tenant context. Lookup failures degrade to "no tenant";
// role resolution then falls through to the profile fallback and tenant
// routes stay denied, which is the fail-closed outcome we want without
// surfacing store errors to the client.
func (ac *AccessControl) lookupTenant(r *http.Request) *tenant.Tenant {
	workspace := contextkeys.GetWorkspace(r.Context())
	if workspace == "" {
		workspace = r.Header.Get(WorkspaceHeader)
	}
	if workspace == "" {
		return nil
	}

	t, err := ac.tenants.GetTenantByWorkspace(r.Context(), workspace)
	if err != nil {
		if !errors.Is(err, tenant.ErrTenantNotFound) {
			ac.logger.WithError(err).WithField("workspace", workspace).
				Warn("tenant lookup failed")
		}
		return nil
	}
	return t
}

// record writes an audit event without blocking the request.
func (ac *AccessControl) record(r *http.Request, eventType audit.EventType, principal *auth.Principal, t *tenant.Tenant, role auth.Role, message string) {
	if ac.audits == nil {
		return
	}
	ev := &audit.Event{
		EventType: eventType,
		Role:      role,
		Workspace: contextkeys.GetWorkspace(r.Context()),
		RequestID: contextkeys.GetRequestID(r.Context()),
		Method:    r.Method,
		Path:      r.URL.Path,
		Message:   message,
	}
	if principal != nil {
		ev.PrincipalID = &principal.ID
	}
	if t != nil {
		ev.TenantID = &t.ID
	}
	async.SafeGo(r.Context(), 5*time.Second, "audit record", func(ctx context.Context) error {
		return ac.audits.Record(ctx, ev)
	})
}

func (ac *AccessControl) gateAllows(status gate.Status, path string, isAPI bool) bool {
	if !status.Restricted {
		return true
	}
	if isAPI {
		return restrictedAPIPaths[path]
	}
	return status.Allows(path)
}

func (ac *AccessControl) denyUnauthenticated(w http.ResponseWriter, r *http.Request, isAPI bool) {
	if isAPI {
		ac.rejectJSON(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

func (ac *AccessControl) rejectJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (ac *AccessControl) decide(surface, decision string) {
	if ac.metrics != nil {
		ac.metrics.AuthzDecisionsTotal.WithLabelValues(surface, decision).Inc()
	}
}

// RoleFromContext extracts the effective role, or "" when absent.
func RoleFromContext(r *http.Request) auth.Role {
	role, ok := r.Context().Value(contextkeys.RoleKey).(auth.Role)
	if !ok {
		return ""
	}
	return role
}

// TenantFromContext extracts the tenant record, or nil.
func TenantFromContext(r *http.Request) *tenant.Tenant {
	t, ok := r.Context().Value(contextkeys.TenantKey).(*tenant.Tenant)
	if !ok {
		return nil
	}
	return t
}
