// Package tenant resolves which customer organization a request targets.
//
// The Resolver maps a request host name to a workspace identifier (the
// short label embedded in a tenant's host name). The Store loads the tenant
// record and its activation/subscription state from PostgreSQL. Resolution
// is pure string work with no I/O; malformed hosts degrade to "no tenant"
// rather than failing the request.
package tenant
