package event

import (
	"encoding/json"
	"fmt"
)

// payload is Event's field set without the Kind discriminator, reused by
// both MarshalJSON and UnmarshalJSON so the two stay in lockstep.
type payload struct {
	Text       string          `json:"text,omitempty"`
	Attachment json.RawMessage `json:"attachment,omitempty"`
	Error      string          `json:"error,omitempty"`

	Tool       string          `json:"tool,omitempty"`
	CallID     string          `json:"call_id,omitempty"`
	ToolInput  json.RawMessage `json:"tool_input,omitempty"`
	ToolOutput json.RawMessage `json:"tool_output,omitempty"`
	ToolStatus ToolStatusValue `json:"tool_status,omitempty"`

	Usage TokenUsage `json:"usage,omitempty"`
	Cost  float64    `json:"cost,omitempty"`

	Permission string          `json:"permission,omitempty"`
	Patterns   []string        `json:"patterns,omitempty"`
	Always     []string        `json:"always,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Reply      string          `json:"reply,omitempty"`

	Summary         string   `json:"summary,omitempty"`
	TruncatedBefore int      `json:"truncated_before,omitempty"`
	MessageCount    int      `json:"message_count,omitempty"`
	TokenCount      int      `json:"token_count,omitempty"`
	ContextWindow   *int     `json:"context_window,omitempty"`
	ThresholdRatio  *float64 `json:"threshold_ratio,omitempty"`
	FromPhase       string   `json:"from_phase,omitempty"`
	ToPhase         string   `json:"to_phase,omitempty"`
	Reason          string   `json:"reason,omitempty"`

	RunID string `json:"run_id,omitempty"`

	SessionID string `json:"session_id,omitempty"`
}

func (e Event) toPayload() payload {
	return payload{
		Text: e.Text, Attachment: e.Attachment, Error: e.Error,
		Tool: e.Tool, CallID: e.CallID, ToolInput: e.ToolInput, ToolOutput: e.ToolOutput, ToolStatus: e.ToolStatus,
		Usage: e.Usage, Cost: e.Cost,
		Permission: e.Permission, Patterns: e.Patterns, Always: e.Always, Metadata: e.Metadata, Reply: e.Reply,
		Summary: e.Summary, TruncatedBefore: e.TruncatedBefore, MessageCount: e.MessageCount, TokenCount: e.TokenCount,
		ContextWindow: e.ContextWindow, ThresholdRatio: e.ThresholdRatio, FromPhase: e.FromPhase, ToPhase: e.ToPhase, Reason: e.Reason,
		RunID: e.RunID, SessionID: e.SessionID,
	}
}

func (p payload) toEvent(kind Kind) Event {
	return Event{
		Kind: kind,
		Text: p.Text, Attachment: p.Attachment, Error: p.Error,
		Tool: p.Tool, CallID: p.CallID, ToolInput: p.ToolInput, ToolOutput: p.ToolOutput, ToolStatus: p.ToolStatus,
		Usage: p.Usage, Cost: p.Cost,
		Permission: p.Permission, Patterns: p.Patterns, Always: p.Always, Metadata: p.Metadata, Reply: p.Reply,
		Summary: p.Summary, TruncatedBefore: p.TruncatedBefore, MessageCount: p.MessageCount, TokenCount: p.TokenCount,
		ContextWindow: p.ContextWindow, ThresholdRatio: p.ThresholdRatio, FromPhase: p.FromPhase, ToPhase: p.ToPhase, Reason: p.Reason,
		RunID: p.RunID, SessionID: p.SessionID,
	}
}

// MarshalJSON renders Event in the externally-tagged form spec §6
// requires: {"VariantName": {fields...}} rather than a flat object with a
// "kind" discriminator field.
func (e Event) MarshalJSON() ([]byte, error) {
	inner, err := json.Marshal(e.toPayload())
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{string(e.Kind): inner})
}

// UnmarshalJSON parses the externally-tagged {"VariantName": {...}} shape
// back into an Event. It rejects objects with anything but exactly one
// key, since that's the only well-formed externally-tagged envelope.
func (e *Event) UnmarshalJSON(data []byte) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper) != 1 {
		return fmt.Errorf("event: externally-tagged object must have exactly one key, got %d", len(wrapper))
	}
	for kind, inner := range wrapper {
		var p payload
		if err := json.Unmarshal(inner, &p); err != nil {
			return fmt.Errorf("event: decoding %q payload: %w", kind, err)
		}
		*e = p.toEvent(Kind(kind))
	}
	return nil
}
