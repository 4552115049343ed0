package rbac

import "github.com/fieldforge/servicedesk/pkg/auth"

// ResourceKind is a resource type subject to ownership checks.
type ResourceKind string

const (
	ResourceWorkOrder      ResourceKind = "work_order"
	ResourceServiceTracker ResourceKind = "service_tracker"
)

// CanAccessResource applies the instance-level ownership rule for work
// orders and service trackers. It is evaluated in addition to the
// route-level matrix, never instead of it:
//
//   - admin and manager may access any instance
//   - coordinator may access any service tracker but no work order
//   - installer may access only instances assigned to them
//   - every other role is denied
func CanAccessResource(role auth.Role, kind ResourceKind, assignedTo, principalID int64) bool {
	switch role {
	case auth.RoleAdmin, auth.RoleManager:
		return true
	case auth.RoleCoordinator:
		return kind == ResourceServiceTracker
	case auth.RoleInstaller:
		return assignedTo == principalID
	default:
		return false
	}
}
