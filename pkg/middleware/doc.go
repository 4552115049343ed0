// Package middleware assembles the per-request access-control pipeline:
//
//	RequestID -> RequestLogger -> TenantContext -> Authentication -> AccessControl
//
// Each stage is a one-shot, idempotent computation over the request; no
// state is cached across requests. TenantContext and Authentication only
// attach context, AccessControl is the single enforcement point. The store
// lookups run sequentially because each stage's input depends on the
// previous stage's output.
package middleware
