package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the access-control pipeline
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	TenantResolutionsTotal *prometheus.CounterVec
	AuthzDecisionsTotal    *prometheus.CounterVec
	GateRestrictionsTotal  *prometheus.CounterVec
	SessionLookupsTotal    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicedesk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "servicedesk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		TenantResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicedesk_tenant_resolutions_total",
				Help: "Tenant resolution outcomes by result",
			},
			[]string{"result"}, // resolved, none, bypass
		),
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicedesk_authz_decisions_total",
				Help: "Authorization decisions by surface and outcome",
			},
			[]string{"surface", "decision"}, // surface: page/api, decision: allow/deny/unauthenticated
		),
		GateRestrictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicedesk_gate_restrictions_total",
				Help: "Subscription gate outcomes",
			},
			[]string{"outcome"}, // unrestricted, restricted, fail_open
		),
		SessionLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "servicedesk_session_lookups_total",
				Help: "Session lookup outcomes",
			},
			[]string{"outcome"}, // hit, miss, error
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TenantResolutionsTotal,
		m.AuthzDecisionsTotal,
		m.GateRestrictionsTotal,
		m.SessionLookupsTotal,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
