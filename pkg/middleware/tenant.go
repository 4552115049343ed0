package middleware

import (
	"net/http"
	"strings"

	"github.com/fieldforge/servicedesk/pkg/contextkeys"
	"github.com/fieldforge/servicedesk/pkg/observability"
	"github.com/fieldforge/servicedesk/pkg/tenant"
)

// WorkspaceHeader carries the resolved workspace identifier downstream so
// later stages never re-parse the host name.
const WorkspaceHeader = "X-Workspace"

// WorkspaceQueryParam mirrors the workspace into the page URL so reloads
// and shared links keep their tenant context.
const WorkspaceQueryParam = "workspace"

// TenantContext resolves the workspace identifier from the request host and
// attaches it to the request. Bypass paths (admin surface, assets, static
// files) pass through untouched. Resolution failures are not errors: the
// request continues without tenant context and is handled by access
// enforcement downstream.
func TenantContext(resolver *tenant.Resolver, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver.Bypass(r.URL.Path) {
				count(metrics, "bypass")
				next.ServeHTTP(w, r)
				return
			}

			workspace, ok := resolver.Resolve(r.Host)
			if !ok || !resolver.Propagate(workspace) {
				count(metrics, "none")
				next.ServeHTTP(w, r)
				return
			}
			count(metrics, "resolved")

			r.Header.Set(WorkspaceHeader, workspace)
			ctx := contextkeys.WithWorkspace(r.Context(), workspace)
			r = r.WithContext(ctx)

			// Page GETs without the explicit workspace parameter get one
			// via redirect; API calls rely on the header alone.
			if r.Method == http.MethodGet &&
				!strings.HasPrefix(r.URL.Path, "/api/") &&
				r.URL.Query().Get(WorkspaceQueryParam) == "" {
				u := *r.URL
				q := u.Query()
				q.Set(WorkspaceQueryParam, workspace)
				u.RawQuery = q.Encode()
				http.Redirect(w, r, u.String(), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func count(metrics *observability.Metrics, result string) {
	if metrics != nil {
		metrics.TenantResolutionsTotal.WithLabelValues(result).Inc()
	}
}
