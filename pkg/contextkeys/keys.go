// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined
// here. This prevents typos, documents dependencies, and makes key usage
// discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// PrincipalKey contains *auth.Principal
	// Set by: middleware.Authentication
	// Required by: role resolution, access enforcement, handlers
	PrincipalKey Key = "principal"

	// WorkspaceKey contains the resolved workspace identifier string
	// Set by: middleware.TenantContext
	// Required by: tenant lookup, access enforcement
	WorkspaceKey Key = "workspace"

	// TenantKey contains *tenant.Tenant
	// Set by: middleware.AccessControl after the workspace lookup
	// Required by: handlers needing the tenant record
	TenantKey Key = "tenant"

	// RoleKey contains auth.Role (the effective role for this request)
	// Set by: middleware.AccessControl
	// Required by: handlers, navigation rendering
	RoleKey Key = "role"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: middleware.RequestID
	// Used by: logger, error responses
	RequestIDKey Key = "request_id"
)

// WithPrincipal adds the authenticated principal to the context
func WithPrincipal(ctx context.Context, p interface{}) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// WithWorkspace adds the resolved workspace identifier to the context
func WithWorkspace(ctx context.Context, workspace string) context.Context {
	return context.WithValue(ctx, WorkspaceKey, workspace)
}

// WithTenant adds the tenant record to the context
func WithTenant(ctx context.Context, t interface{}) context.Context {
	return context.WithValue(ctx, TenantKey, t)
}

// WithRole adds the effective role to the context
func WithRole(ctx context.Context, role interface{}) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetWorkspace retrieves the workspace identifier from context
func GetWorkspace(ctx context.Context) string {
	if workspace, ok := ctx.Value(WorkspaceKey).(string); ok {
		return workspace
	}
	return ""
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
