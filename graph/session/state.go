package session

// RoutingKind selects what a SessionState's Routing field means.
type RoutingKind string

const (
	RoutingNext      RoutingKind = "Next"
	RoutingComplete  RoutingKind = "Complete"
	RoutingInterrupt RoutingKind = "Interrupt"
)

// Routing is the executor-facing disposition of a run after its current
// step (spec §3 "SessionState").
type Routing struct {
	Kind   RoutingKind
	Reason string
}

// ToolCallStatus mirrors the event.ToolStatusValue lifecycle for one
// in-flight or completed tool call record.
type ToolCallStatus string

const (
	ToolCallPending   ToolCallStatus = "pending"
	ToolCallRunning   ToolCallStatus = "running"
	ToolCallCompleted ToolCallStatus = "completed"
	ToolCallError     ToolCallStatus = "error"
)

// ToolCallRecord tracks one tool invocation across its lifecycle events.
type ToolCallRecord struct {
	Tool   string
	CallID string
	Status ToolCallStatus
}

// State is the per-run session state: finalized messages, the
// not-yet-finalized part buffer, tool call bookkeeping, routing
// disposition and phase (spec §3 "SessionState").
type State struct {
	SessionID    string
	ParentID     string
	MessageID    string
	Step         int
	Messages     []Message
	PendingParts []Part
	ToolCalls    []ToolCallRecord
	Routing      Routing
	Phase        Phase
}

// New returns a freshly initialized State in PhaseUserInput with no
// history.
func New(sessionID string) *State {
	return &State{SessionID: sessionID, Phase: PhaseUserInput, Routing: Routing{Kind: RoutingNext}}
}

// FinalizeMessage drains PendingParts into a new Message under role, only
// if the buffer is non-empty (spec §4.5 "finalize_message(role)").
func (s *State) FinalizeMessage(role Role) *Message {
	if len(s.PendingParts) == 0 {
		return nil
	}
	msg := Message{ID: s.MessageID, Role: role, Parts: s.PendingParts}
	s.Messages = append(s.Messages, msg)
	s.PendingParts = nil
	return &s.Messages[len(s.Messages)-1]
}

// toolCallIndex returns the index of the tool call record matching
// callID, or -1 if none exists yet.
func (s *State) toolCallIndex(callID string) int {
	for i, tc := range s.ToolCalls {
		if tc.CallID == callID {
			return i
		}
	}
	return -1
}
