// Package tool implements the tool lifecycle runner and registry (spec
// §3, §4.4, component D): the call/output/attachment/definition shapes,
// a read-only-after-build registry of handlers by name, cancellation
// tokens, and the Runner that wraps a user handler with the status/
// start/result/error event emission spec §4.4 step 3 and §8 property 7
// require. Permission gating (§4.4 step 2) and the interrupt it can
// raise live in the root graph package, which is the only package that
// needs to know about both this package and graph/permission.
package tool

import (
	"encoding/json"

	"github.com/wrenlabs/agentgraph/graph/attachment"
)

// Call is one tool invocation request (spec §3 "ToolCall").
type Call struct {
	Tool   string          `json:"tool"`
	CallID string          `json:"call_id"`
	Input  json.RawMessage `json:"input"`
}

// Output is a tool handler's successful result (spec §3 "ToolOutput").
// Attachments are whatever the handler produced; Runner.Invoke normalizes
// them (§4.4.1) before they reach ToolAttachment/ToolResult events.
type Output struct {
	Content     string                  `json:"content"`
	Metadata    json.RawMessage         `json:"metadata,omitempty"`
	Attachments []attachment.Attachment `json:"attachments,omitempty"`
}

// Definition describes one registered tool (spec §3 "ToolDefinition").
// Sensitive is the supplemented flag recovered from the original source's
// tool.rs (SPEC_FULL.md §6). graph/sink.Log does not read it; Log redacts
// the tool names passed to sink.NewLog.
type Definition struct {
	Name         string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Sensitive    bool
}

// Registry is a read-only-after-build table of tool definitions and
// handlers by name; lookup is lock-free once built (spec §5 "Tool
// registry: read-only after build; handler lookup is lock-free").
type Registry struct {
	defs     map[string]Definition
	handlers map[string]Handler
}

// NewRegistry returns an empty, mutable Registry. Callers register every
// tool before handing the registry to concurrent node handlers; Registry
// itself performs no locking, matching the read-only-after-build
// contract.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition), handlers: make(map[string]Handler)}
}

// Register adds or replaces the definition and handler for def.Name.
func (r *Registry) Register(def Definition, handler Handler) *Registry {
	r.defs[def.Name] = def
	r.handlers[def.Name] = handler
	return r
}

// Definition returns the registered definition for name, if any.
func (r *Registry) Definition(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Handler returns the registered handler for name, if any.
func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Sensitive reports whether name's definition marks it sensitive,
// defaulting to false for unregistered names.
func (r *Registry) Sensitive(name string) bool {
	return r.defs[name].Sensitive
}
