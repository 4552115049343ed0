package audit

import (
	"time"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

// EventType categorizes an audit event.
type EventType string

const (
	EventAuthLogin       EventType = "auth.login"
	EventAuthLoginFailed EventType = "auth.login_failed"
	EventAuthLogout      EventType = "auth.logout"

	EventAccessDenied   EventType = "authz.access_denied"
	EventGateRestricted EventType = "authz.gate_restricted"
)

// Event is one audit log entry. Principal and tenant are pointers because
// denials happen before either is known.
type Event struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"event_type"`

	PrincipalID *int64    `json:"principal_id,omitempty"`
	TenantID    *int64    `json:"tenant_id,omitempty"`
	Role        auth.Role `json:"role,omitempty"`
	Workspace   string    `json:"workspace,omitempty"`

	RequestID string `json:"request_id,omitempty"`
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`

	Message string `json:"message,omitempty"`
}
