package session

import (
	"github.com/wrenlabs/agentgraph/graph/event"
)

// Role identifies who authored a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartKind selects which field of a Part is meaningful.
type PartKind string

const (
	PartTextDelta      PartKind = "TextDelta"
	PartTextFinal      PartKind = "TextFinal"
	PartToolCall       PartKind = "ToolCall"
	PartToolResult     PartKind = "ToolResult"
	PartToolAttachment PartKind = "ToolAttachment"
	PartToolError      PartKind = "ToolError"
	PartAttachment     PartKind = "Attachment"
	PartTokenUsage     PartKind = "TokenUsage"
	PartError          PartKind = "Error"
)

// Part is one reduced fragment of a Message. Text deltas append as
// distinct parts in emission order and never mutate earlier parts (spec
// §3 "Message").
type Part struct {
	Kind PartKind `json:"kind"`

	Text   string `json:"text,omitempty"`
	Tool   string `json:"tool,omitempty"`
	CallID string `json:"call_id,omitempty"`

	ToolInput  []byte `json:"tool_input,omitempty"`
	ToolOutput []byte `json:"tool_output,omitempty"`

	Attachment []byte `json:"attachment,omitempty"`
	Usage      event.TokenUsage `json:"usage,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Message is one finalized, ordered unit of session history.
type Message struct {
	ID          string         `json:"id"`
	Role        Role           `json:"role"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAtMS *int64         `json:"created_at_ms,omitempty"`
}

// Text concatenates every TextDelta/TextFinal part's text, the value a
// SessionSnapshot's message "content" captures (spec §6).
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Kind == PartTextDelta || p.Kind == PartTextFinal {
			out += p.Text
		}
	}
	return out
}
