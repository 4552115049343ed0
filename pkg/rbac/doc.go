// Package rbac holds the static route permission matrices and the
// instance-level ownership rules.
//
// Two independent matrices exist, one for page routes and one for API
// routes. Each is exhaustive and default-deny: a path that matches no
// pattern is denied for every role. Patterns are compiled once at startup;
// per-request lookups are pure in-memory string matching with memoized
// results.
//
// The role hierarchy (auth.IsHigherRole) is a separate mechanism used only
// for relative-privilege comparisons. A role can outrank another and still
// be denied a route here; the two must not be conflated.
package rbac
