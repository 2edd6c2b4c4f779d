// Package event defines the tagged event variant that flows through every
// run of the graph executor, its ordering metadata, and the monotonic
// sequencer that assigns that metadata (spec §3 and §4 component A).
//
// The package deliberately carries no dependency on the executor or any
// other package of this module: Event and Record are the wire format the
// leaf packages session, prune, sink, store, tool and trace and the root
// graph package build on, so keeping it free of module imports is what
// keeps the module's package graph acyclic (see DESIGN.md).
package event

import "encoding/json"

// TokenUsage tallies the five non-negative counters spec §3 defines for a
// single model call. Total is the arithmetic sum of all five.
type TokenUsage struct {
	Input      int `json:"input"`
	Output     int `json:"output"`
	Reasoning  int `json:"reasoning"`
	CacheRead  int `json:"cache_read"`
	CacheWrite int `json:"cache_write"`
}

// Total returns the sum of all counters.
func (u TokenUsage) Total() int {
	return u.Input + u.Output + u.Reasoning + u.CacheRead + u.CacheWrite
}

// Add returns the element-wise sum of u and o.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		Input:      u.Input + o.Input,
		Output:     u.Output + o.Output,
		Reasoning:  u.Reasoning + o.Reasoning,
		CacheRead:  u.CacheRead + o.CacheRead,
		CacheWrite: u.CacheWrite + o.CacheWrite,
	}
}

// Kind names one of the tagged Event variants. Kept as a string type (not
// iota) because Kind doubles as the externally-tagged JSON discriminator
// key (spec §6 "{\"VariantName\": {fields...}}").
type Kind string

// The full tagged event variant set from spec §3.
const (
	KindTextDelta   Kind = "TextDelta"
	KindTextFinal   Kind = "TextFinal"
	KindAttachment  Kind = "Attachment"
	KindError       Kind = "Error"
	KindToolStart   Kind = "ToolStart"
	KindToolUpdate  Kind = "ToolUpdate"
	KindToolResult  Kind = "ToolResult"
	KindToolAttach  Kind = "ToolAttachment"
	KindToolError   Kind = "ToolError"
	KindToolStatus  Kind = "ToolStatus"
	KindStepStart   Kind = "StepStart"
	KindStepFinish  Kind = "StepFinish"
	KindPermAsked   Kind = "PermissionAsked"
	KindPermReplied Kind = "PermissionReplied"

	KindSessionCompacted          Kind = "SessionCompacted"
	KindSessionCompactionRequest  Kind = "SessionCompactionRequested"
	KindSessionPhaseChanged       Kind = "SessionPhaseChanged"
	KindSessionPhaseRejected      Kind = "SessionPhaseTransitionRejected"

	KindRunStarted   Kind = "RunStarted"
	KindRunPaused    Kind = "RunPaused"
	KindRunResumed   Kind = "RunResumed"
	KindRunCompleted Kind = "RunCompleted"
	KindRunFailed    Kind = "RunFailed"
	KindRunAborted   Kind = "RunAborted"
)

// ToolStatusValue is the lifecycle status carried by a ToolStatus event.
type ToolStatusValue string

const (
	ToolStatusPending   ToolStatusValue = "pending"
	ToolStatusRunning   ToolStatusValue = "running"
	ToolStatusCompleted ToolStatusValue = "completed"
	ToolStatusError     ToolStatusValue = "error"
)

// Event is a single tagged-variant occurrence. Kind selects which of the
// payload fields is meaningful; unused fields are left zero. This shape
// (one struct, many optional fields, selected by a Kind tag) mirrors how
// the teacher's emit.Event carries a free-form Meta map, generalized here
// into typed fields per variant so callers type-switch on Kind instead of
// doing map[string]interface{} lookups.
type Event struct {
	Kind Kind `json:"kind"`

	// Text / attachment / error payloads.
	Text       string          `json:"text,omitempty"`
	Attachment json.RawMessage `json:"attachment,omitempty"`
	Error      string          `json:"error,omitempty"`

	// Tool payloads.
	Tool           string          `json:"tool,omitempty"`
	CallID         string          `json:"call_id,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
	ToolOutput     json.RawMessage `json:"tool_output,omitempty"`
	ToolStatus     ToolStatusValue `json:"tool_status,omitempty"`

	// Step payloads.
	Usage TokenUsage `json:"usage,omitempty"`
	Cost  float64    `json:"cost,omitempty"`

	// Permission payloads.
	Permission string          `json:"permission,omitempty"`
	Patterns   []string        `json:"patterns,omitempty"`
	Always     []string        `json:"always,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	Reply      string          `json:"reply,omitempty"`

	// Session payloads.
	Summary         string  `json:"summary,omitempty"`
	TruncatedBefore int     `json:"truncated_before,omitempty"`
	MessageCount    int     `json:"message_count,omitempty"`
	TokenCount      int     `json:"token_count,omitempty"`
	ContextWindow   *int    `json:"context_window,omitempty"`
	ThresholdRatio  *float64 `json:"threshold_ratio,omitempty"`
	FromPhase       string  `json:"from_phase,omitempty"`
	ToPhase         string  `json:"to_phase,omitempty"`
	Reason          string  `json:"reason,omitempty"`

	// Run lifecycle payloads.
	RunID string `json:"run_id,omitempty"`

	// SessionID correlates a step/session event with the session it
	// belongs to, so a recording sink shared by more than one session can
	// still scan history for "the most recent StepFinish matching the
	// session id" per spec §4.2.
	SessionID string `json:"session_id,omitempty"`
}
