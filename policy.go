package shopkit

import (
	"strings"
)

// AccessPolicy maps one protected-path pattern to the roles allowed through.
// A pattern is either an exact path or a prefix wildcard such as "/user/*",
// which matches the prefix and everything below it.
//
// Semantics: AuthOnly admits any authenticated identity. Otherwise the
// identity's role set must intersect Roles. An entry with no roles and
// AuthOnly false denies everyone; policies are total over protected paths, so
// that is the way to hard-close a path.
type AccessPolicy struct {
	Pattern  string
	Roles    []RoleName
	AuthOnly bool
}

// Matches reports whether the policy covers the given path.
func (p AccessPolicy) Matches(path string) bool {
	if pattern, ok := strings.CutSuffix(p.Pattern, "/*"); ok {
		return path == pattern || strings.HasPrefix(path, pattern+"/")
	}
	return path == p.Pattern
}

// PolicySet is the protected-route matcher handed to the routing layer.
// Paths matching no entry are implicitly public.
type PolicySet []AccessPolicy

// Match returns the first policy covering the path. First match wins, so
// order specific entries before broad wildcards.
func (ps PolicySet) Match(path string) (AccessPolicy, bool) {
	for _, policy := range ps {
		if policy.Matches(path) {
			return policy, true
		}
	}
	return AccessPolicy{}, false
}

// Gate decides whether an identity satisfies an access policy.
type Gate struct {
	logger Logger
}

func NewGate() *Gate {
	return &Gate{logger: defLogger{}}
}

func (g *Gate) WithLogger(logger Logger) *Gate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// IsAuthorized is true iff the identity is present and either the policy only
// requires authentication or the role sets intersect.
func (g *Gate) IsAuthorized(identity *Identity, policy AccessPolicy) bool {
	if identity == nil {
		return false
	}

	if policy.AuthOnly {
		return true
	}

	if len(policy.Roles) == 0 {
		// Total-deny entry.
		return false
	}

	return identity.HasAnyRole(policy.Roles...)
}
