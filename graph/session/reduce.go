package session

import (
	"github.com/wrenlabs/agentgraph/graph/event"
)

// advance applies TryTransition(s.Phase, next) and updates s.Phase only
// when the transition is legal, matching the §4.5 reduction table's
// "phase change (if legal)" column — an event that would make an illegal
// transition simply doesn't move the phase.
func advance(s *State, next Phase) {
	if p, err := TryTransition(s.Phase, next); err == nil {
		s.Phase = p
	}
}

// Reduce consumes one event, advancing phase and appending parts per the
// §4.5 event-reduction table. It never returns an error: events that
// would violate the phase machine are simply not applied to Phase, while
// their part/tool-call bookkeeping still happens.
func Reduce(s *State, ev event.Event) {
	switch ev.Kind {
	case event.KindTextDelta:
		advance(s, PhaseAssistantStreaming)
		s.PendingParts = append(s.PendingParts, Part{Kind: PartTextDelta, Text: ev.Text})

	case event.KindTextFinal:
		advance(s, PhaseAssistantStreaming)
		s.PendingParts = append(s.PendingParts, Part{Kind: PartTextFinal, Text: ev.Text})

	case event.KindToolStart:
		advance(s, PhaseToolProposed)
		advance(s, PhaseToolRunning)
		s.PendingParts = append(s.PendingParts, Part{
			Kind: PartToolCall, Tool: ev.Tool, CallID: ev.CallID, ToolInput: []byte(ev.ToolInput),
		})
		setToolCallStatus(s, ev.Tool, ev.CallID, ToolCallRunning)

	case event.KindToolResult:
		advance(s, PhaseToolResult)
		s.PendingParts = append(s.PendingParts, Part{
			Kind: PartToolResult, Tool: ev.Tool, CallID: ev.CallID, ToolOutput: []byte(ev.ToolOutput),
		})
		setToolCallStatus(s, ev.Tool, ev.CallID, ToolCallCompleted)

	case event.KindToolError:
		advance(s, PhaseToolResult)
		s.PendingParts = append(s.PendingParts, Part{
			Kind: PartToolError, Tool: ev.Tool, CallID: ev.CallID, Error: ev.Error,
		})
		setToolCallStatus(s, ev.Tool, ev.CallID, ToolCallError)

	case event.KindStepFinish:
		advance(s, PhaseAssistantFinalize)
		s.PendingParts = append(s.PendingParts, Part{Kind: PartTokenUsage, Usage: ev.Usage})

	case event.KindAttachment:
		s.PendingParts = append(s.PendingParts, Part{Kind: PartAttachment, Attachment: []byte(ev.Attachment)})

	case event.KindError:
		s.PendingParts = append(s.PendingParts, Part{Kind: PartError, Error: ev.Error})

	default:
		// No phase change, no part appended.
	}
}

// setToolCallStatus updates the status of the tool call record matching
// callID, creating one if this is the call's first event.
func setToolCallStatus(s *State, tool, callID string, status ToolCallStatus) {
	if idx := s.toolCallIndex(callID); idx != -1 {
		s.ToolCalls[idx].Status = status
		return
	}
	s.ToolCalls = append(s.ToolCalls, ToolCallRecord{Tool: tool, CallID: callID, Status: status})
}
