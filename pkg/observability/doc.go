// Package observability provides structured logging, Prometheus metrics,
// and health probes shared across the service.
package observability
