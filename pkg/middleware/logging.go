package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fieldforge/servicedesk/pkg/contextkeys"
	"github.com/fieldforge/servicedesk/pkg/observability"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one structured line per request and records HTTP
// metrics when a Metrics registry is supplied.
func RequestLogger(logger *observability.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": duration.Milliseconds(),
			}
			if requestID := contextkeys.GetRequestID(r.Context()); requestID != "" {
				fields["request_id"] = requestID
			}
			if workspace := contextkeys.GetWorkspace(r.Context()); workspace != "" {
				fields["workspace"] = workspace
			}
			logger.WithFields(fields).Info("request completed")

			if metrics != nil {
				metrics.HTTPRequestsTotal.WithLabelValues(
					r.Method, r.URL.Path, strconv.Itoa(rec.status),
				).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(
					r.Method, r.URL.Path,
				).Observe(duration.Seconds())
			}
		})
	}
}
