package rbac

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fieldforge/servicedesk/pkg/auth"
)

// matrixCacheSize bounds the memoized lookup results. Lookups are pure
// functions of (role, path) over a static table, so memoization never goes
// stale; the LRU only bounds memory against path-cardinality abuse.
const matrixCacheSize = 4096

// segment is one path segment of a compiled route pattern.
type segment struct {
	literal  string
	wildcard bool
}

// entry is one compiled route pattern with its permitted role set.
type entry struct {
	pattern  string
	segments []segment
	roles    map[auth.Role]bool
}

// Matrix maps route patterns to permitted role sets. Absence of a pattern
// means no role may access the path (default-deny). Patterns may contain
// wildcard segments written as {name}.
type Matrix struct {
	exact     map[string]*entry
	wildcards []*entry
	cache     *lru.Cache[string, bool]
}

// NewMatrix compiles a pattern table into a Matrix. Patterns are compiled
// once here, never per request. Wildcard patterns are scanned in sorted
// pattern order so lookups are deterministic.
func NewMatrix(table map[string][]auth.Role) *Matrix {
	m := &Matrix{
		exact: make(map[string]*entry, len(table)),
	}
	// Errors only occur for non-positive sizes.
	m.cache, _ = lru.New[string, bool](matrixCacheSize)

	patterns := make([]string, 0, len(table))
	for pattern := range table {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		e := &entry{
			pattern: pattern,
			roles:   make(map[auth.Role]bool, len(table[pattern])),
		}
		for _, role := range table[pattern] {
			e.roles[role] = true
		}

		if !strings.Contains(pattern, "{") {
			m.exact[pattern] = e
			continue
		}
		for _, part := range splitPath(pattern) {
			if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
				e.segments = append(e.segments, segment{wildcard: true})
			} else {
				e.segments = append(e.segments, segment{literal: part})
			}
		}
		m.wildcards = append(m.wildcards, e)
	}

	return m
}

// Allowed reports whether the role may access the concrete path. Lookup is
// exact match first, then wildcard patterns, then deny.
func (m *Matrix) Allowed(role auth.Role, path string) bool {
	path = normalizePath(path)
	key := string(role) + "\x00" + path
	if allowed, ok := m.cache.Get(key); ok {
		return allowed
	}

	allowed := m.lookup(role, path)
	m.cache.Add(key, allowed)
	return allowed
}

// Patterns returns every pattern in the matrix, sorted. Used by tests to
// cross-check the declared role sets exhaustively.
func (m *Matrix) Patterns() []string {
	patterns := make([]string, 0, len(m.exact)+len(m.wildcards))
	for p := range m.exact {
		patterns = append(patterns, p)
	}
	for _, e := range m.wildcards {
		patterns = append(patterns, e.pattern)
	}
	sort.Strings(patterns)
	return patterns
}

// Roles returns the declared role set for an exact pattern, or nil if the
// pattern is not in the matrix.
func (m *Matrix) Roles(pattern string) []auth.Role {
	var e *entry
	if ex, ok := m.exact[pattern]; ok {
		e = ex
	} else {
		for _, w := range m.wildcards {
			if w.pattern == pattern {
				e = w
				break
			}
		}
	}
	if e == nil {
		return nil
	}
	roles := make([]auth.Role, 0, len(e.roles))
	for role := range e.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (m *Matrix) lookup(role auth.Role, path string) bool {
	if e, ok := m.exact[path]; ok {
		return e.roles[role]
	}

	parts := splitPath(path)
	for _, e := range m.wildcards {
		if matchSegments(e.segments, parts) {
			return e.roles[role]
		}
	}

	return false
}

func matchSegments(segs []segment, parts []string) bool {
	if len(segs) != len(parts) {
		return false
	}
	for i, s := range segs {
		if s.wildcard {
			if parts[i] == "" {
				return false
			}
			continue
		}
		if s.literal != parts[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
