// Package api assembles the HTTP router and the thin handlers behind the
// access-control middleware chain.
package api
