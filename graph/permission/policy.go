// Package permission implements the pattern-based permission decision
// table and its session-scoped runtime overrides (spec §3, §4.8,
// component B). A Policy is the static, shareable base; a Session layers
// reject/always/once overrides on top of one, per run.
package permission

import "strings"

// Decision is the outcome of evaluating a permission string against a
// policy or session.
type Decision string

const (
	Allow Decision = "allow"
	Ask   Decision = "ask"
	Deny  Decision = "deny"
)

// Rule is one row of a Policy's decision table: if any of Patterns
// matches the permission being decided, Action applies.
type Rule struct {
	Action   Decision
	Patterns []string
}

// match reports whether any of the rule's patterns matches permission.
func (r Rule) match(permission string) bool {
	for _, p := range r.Patterns {
		if Match(p, permission) {
			return true
		}
	}
	return false
}

// Match implements the §6 permission pattern grammar: "*" matches
// anything; a pattern ending in "*" matches by prefix; anything else
// matches only exactly.
func Match(pattern, permission string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(permission, pattern[:len(pattern)-1])
	}
	return pattern == permission
}

// specificity scores a pattern for the "most specific wins" tie-break
// §4.8/§8 property 3 requires for "once" overrides: wildcard < prefix <
// exact, and among equally-typed patterns the longer one wins.
func specificity(pattern string) int {
	switch {
	case pattern == "*":
		return 0
	case strings.HasSuffix(pattern, "*"):
		return 1
	default:
		return 2
	}
}

// Policy is an ordered, immutable rule table with a default decision of
// Allow when no rule matches (spec §3).
type Policy struct {
	Rules []Rule
}

// NewPolicy returns a Policy with the given rules, evaluated in order.
func NewPolicy(rules ...Rule) Policy {
	return Policy{Rules: rules}
}

// Decide returns the first rule's action whose pattern matches
// permission, or Allow if none match.
func (p Policy) Decide(permission string) Decision {
	for _, rule := range p.Rules {
		if rule.match(permission) {
			return rule.Action
		}
	}
	return Allow
}
