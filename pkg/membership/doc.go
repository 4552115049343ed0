// Package membership owns the principal-to-tenant association and the role
// resolution precedence: super-admin flag over membership role over profile
// fallback. A membership role always wins over the profile fallback when
// both exist; the super-admin flag wins over everything.
package membership
