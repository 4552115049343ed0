package tenant

import (
	"net"
	"strings"
)

// Defaults used when the platform environment values are absent. Resolution
// must keep working without configuration, so these are fallbacks rather
// than required settings.
const (
	DefaultPlatformTLD    = "in"
	DefaultAdminWorkspace = "app"
)

// infraDomains are hosting domains that are never tenant domains by
// themselves. A host with three labels ending in one of these (for example
// servicedesk.herokuapp.com) has no tenant context; four or more labels is
// the nested legacy deployment shape and the first label still wins.
var infraDomains = []string{
	"herokuapp.com",
	"onrender.com",
	"azurewebsites.net",
	"amazonaws.com",
}

// reservedWorkspaces are generic labels that resolve but are never
// propagated downstream as a workspace identifier.
var reservedWorkspaces = map[string]bool{
	"www": true,
	"api": true,
}

// bypassPrefixes are path prefixes that skip tenant resolution entirely:
// the platform admin surface, the API (which carries its own tenant
// header), and framework asset routes.
var bypassPrefixes = []string{
	"/platform/",
	"/api/",
	"/static/",
	"/assets/",
	"/_app/",
}

// staticExtensions are file extensions served without tenant context.
var staticExtensions = []string{
	".css", ".js", ".map", ".ico", ".png", ".jpg", ".jpeg", ".gif",
	".svg", ".webp", ".woff", ".woff2", ".ttf", ".txt",
}

// Resolver extracts a workspace identifier from a request host name.
type Resolver struct {
	platformTLD    string
	adminWorkspace string
}

// NewResolver creates a resolver for the given platform top-level label and
// reserved admin workspace label. Empty values fall back to defaults so a
// missing environment never breaks resolution.
func NewResolver(platformTLD, adminWorkspace string) *Resolver {
	if platformTLD == "" {
		platformTLD = DefaultPlatformTLD
	}
	if adminWorkspace == "" {
		adminWorkspace = DefaultAdminWorkspace
	}
	return &Resolver{
		platformTLD:    strings.ToLower(platformTLD),
		adminWorkspace: strings.ToLower(adminWorkspace),
	}
}

// Resolve returns the workspace identifier for a host name, or ok=false
// when the host carries no tenant context (platform admin domain, unknown
// shape, malformed input). It never panics on malformed hosts; resolution
// degrades to "no tenant" and the request continues through the pipeline.
func (r *Resolver) Resolve(host string) (string, bool) {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return "", false
	}

	// Hosts may arrive with a port attached.
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if strings.ContainsAny(host, " \t/\\@") {
		return "", false
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if label == "" {
			return "", false
		}
	}

	switch {
	case len(labels) == 2 && labels[1] == r.platformTLD:
		candidate := labels[0]
		if candidate == r.adminWorkspace {
			// Platform admin domain; no tenant context.
			return "", false
		}
		// Any other label is accepted verbatim; older tenants predate the
		// onboarding naming rule, so no pattern is enforced here.
		return candidate, true

	case len(labels) >= 3:
		if !hasInfraDomain(host) {
			return labels[0], true
		}
		if len(labels) >= 4 {
			// Nested legacy deployment under a hosting domain.
			return labels[0], true
		}
		return "", false

	default:
		return "", false
	}
}

// Propagate reports whether a resolved workspace should be forwarded to
// downstream components. Reserved generic labels resolve but are not
// propagated.
func (r *Resolver) Propagate(workspace string) bool {
	return workspace != "" && !reservedWorkspaces[workspace]
}

// Bypass reports whether a request path skips tenant resolution entirely.
// These paths are not part of the authorization pipeline.
func (r *Resolver) Bypass(path string) bool {
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if path == "/favicon.ico" {
		return true
	}
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		ext := path[idx:]
		for _, e := range staticExtensions {
			if ext == e {
				return true
			}
		}
	}
	return false
}

func hasInfraDomain(host string) bool {
	for _, d := range infraDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
