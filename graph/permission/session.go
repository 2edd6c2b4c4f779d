package permission

import "sync"

// Request is the opaque payload surfaced to a caller when the gate asks
// for a decision on a gated capability (spec §4.4 step 2, the value
// carried by the Interrupt the executor raises for an Ask decision).
type Request struct {
	Permission string          `json:"permission"`
	Patterns   []string        `json:"patterns"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	Always     []string        `json:"always"`
}

// Snapshot is the serializable form of a Session's override state (spec
// §4.8 "snapshot() returns a serializable {once[], always[], reject[]}").
type Snapshot struct {
	Once   []string `json:"once"`
	Always []string `json:"always"`
	Reject []string `json:"reject"`
}

// Session layers three override sets over a base Policy. Decision
// precedence is reject > always > once > base (spec §3, §8 property 3).
// Session is safe for concurrent use: overrides are guarded by an
// internal mutex (spec §4.8 "Policy/session are thread-safe").
type Session struct {
	mu     sync.Mutex
	base   Policy
	reject []string
	always []string
	once   []string
}

// NewSession returns a Session with no overrides layered over base.
func NewSession(base Policy) *Session {
	return &Session{base: base}
}

// Decide evaluates permission against reject, then always, then once
// (consuming the most specific matching once entry), falling through to
// the base policy when nothing overrides it.
func (s *Session) Decide(permission string) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if matchAny(s.reject, permission) {
		return Deny
	}
	if matchAny(s.always, permission) {
		return Allow
	}
	if idx, ok := mostSpecificMatch(s.once, permission); ok {
		s.once = append(s.once[:idx], s.once[idx+1:]...)
		return Allow
	}
	return s.base.Decide(permission)
}

// ReplyKind is the caller's explicit decision for one permission request.
type ReplyKind string

const (
	Once   ReplyKind = "once"
	Always ReplyKind = "always"
	Reject ReplyKind = "reject"
)

// ApplyReply stores permission verbatim into the override set named by
// kind (spec §4.8 "stores the permission string verbatim").
func (s *Session) ApplyReply(permission string, kind ReplyKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case Once:
		s.once = append(s.once, permission)
	case Always:
		s.always = append(s.always, permission)
	case Reject:
		s.reject = append(s.reject, permission)
	}
}

// TakeSnapshot returns a serializable copy of the current overrides.
func (s *Session) TakeSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Once:   append([]string(nil), s.once...),
		Always: append([]string(nil), s.always...),
		Reject: append([]string(nil), s.reject...),
	}
}

// Restore atomically replaces the session's overrides with snap's.
func (s *Session) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.once = append([]string(nil), snap.Once...)
	s.always = append([]string(nil), snap.Always...)
	s.reject = append([]string(nil), snap.Reject...)
}

func matchAny(patterns []string, permission string) bool {
	for _, p := range patterns {
		if Match(p, permission) {
			return true
		}
	}
	return false
}

// mostSpecificMatch finds, among patterns matching permission, the index
// of the one with the highest specificity (exact > prefix > wildcard),
// breaking ties by longer pattern length.
func mostSpecificMatch(patterns []string, permission string) (int, bool) {
	best := -1
	for i, p := range patterns {
		if !Match(p, permission) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		if betterMatch(p, patterns[best]) {
			best = i
		}
	}
	return best, best != -1
}

func betterMatch(candidate, current string) bool {
	cs, us := specificity(candidate), specificity(current)
	if cs != us {
		return cs > us
	}
	return len(candidate) > len(current)
}
