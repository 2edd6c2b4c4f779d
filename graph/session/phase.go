// Package session implements the per-run phase state machine, the
// message/part reduction that turns the event stream into a chat-shaped
// history, and the tool-call bookkeeping that backs it (spec §3, §4.5,
// component E).
package session

import "fmt"

// Phase is one state of the session's phase machine (spec §4.5).
type Phase string

const (
	PhaseUserInput          Phase = "UserInput"
	PhaseModelThinking      Phase = "ModelThinking"
	PhaseAssistantStreaming Phase = "AssistantStreaming"
	PhaseToolProposed       Phase = "ToolProposed"
	PhaseToolRunning        Phase = "ToolRunning"
	PhaseToolResult         Phase = "ToolResult"
	PhaseAssistantFinalize  Phase = "AssistantFinalize"
	PhaseCompleted          Phase = "Completed"
	PhaseInterrupted        Phase = "Interrupted"
	PhaseResumed            Phase = "Resumed"
)

// legalEdges enumerates every transition the §4.5 diagram permits,
// besides the universal self-loop (current == next is always a no-op)
// and the entry into Interrupted from any non-Completed phase, handled
// separately in TryTransition. No edge leads out of Interrupted.
var legalEdges = map[Phase]map[Phase]bool{
	PhaseUserInput:          {PhaseModelThinking: true},
	PhaseModelThinking:      {PhaseAssistantStreaming: true},
	PhaseAssistantStreaming: {PhaseToolProposed: true, PhaseAssistantFinalize: true},
	PhaseToolProposed:       {PhaseToolRunning: true},
	PhaseToolRunning:        {PhaseToolResult: true},
	PhaseToolResult:         {PhaseAssistantStreaming: true},
	PhaseAssistantFinalize:  {PhaseCompleted: true},
	PhaseResumed:            {PhaseModelThinking: true},
}

// TransitionError reports an illegal phase transition, naming both states
// (spec §4.5 "otherwise fails with a message naming both states").
type TransitionError struct {
	From, To Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal session phase transition from %s to %s", e.From, e.To)
}

// TryTransition validates a phase change without mutating anything. It is
// a no-op (returns current unchanged) when next == current, permits any
// edge in legalEdges, permits entering Interrupted from any non-Completed
// phase, and otherwise fails with a *TransitionError.
func TryTransition(current, next Phase) (Phase, error) {
	if current == next {
		return current, nil
	}
	if next == PhaseInterrupted && current != PhaseCompleted {
		return next, nil
	}
	if legalEdges[current][next] {
		return next, nil
	}
	return current, &TransitionError{From: current, To: next}
}
