package middleware

import (
	"net/http"

	"github.com/fieldforge/servicedesk/pkg/auth"
	"github.com/fieldforge/servicedesk/pkg/contextkeys"
	"github.com/fieldforge/servicedesk/pkg/observability"
)

// Authentication resolves the session principal and places it in the
// request context. It never rejects by itself; enforcement happens in
// AccessControl so that public paths stay cheap. A session-store failure is
// logged and the request continues unauthenticated (fail-closed: no
// principal means no role downstream).
func Authentication(authenticator auth.Authenticator, logger *observability.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticator.GetCurrentPrincipal(r)
			if err != nil {
				logger.WithError(err).Warn("session lookup failed, continuing unauthenticated")
				countSession(metrics, "error")
				next.ServeHTTP(w, r)
				return
			}
			if principal == nil {
				countSession(metrics, "miss")
				next.ServeHTTP(w, r)
				return
			}

			countSession(metrics, "hit")
			ctx := contextkeys.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated principal, or nil.
func PrincipalFromContext(r *http.Request) *auth.Principal {
	principal, ok := r.Context().Value(contextkeys.PrincipalKey).(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}

func countSession(metrics *observability.Metrics, outcome string) {
	if metrics != nil {
		metrics.SessionLookupsTotal.WithLabelValues(outcome).Inc()
	}
}
