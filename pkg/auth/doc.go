// Package auth defines the identity primitives of the access-control core:
// the Principal type, the fixed role enumeration with its rank order, and
// the session authenticator that maps an inbound request to a Principal.
//
// Role resolution (which role a principal holds inside a tenant) lives in
// pkg/membership; route authorization lives in pkg/rbac. This package is
// deliberately free of tenant knowledge.
package auth
