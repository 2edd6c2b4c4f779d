package tool

import (
	"context"
	"fmt"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// EventSink is the narrow emission seam Runner writes lifecycle events to.
// graph.EventSink and graph/sink.Buffered both satisfy this
// structurally; tool deliberately declares its own copy rather than
// importing graph, since graph imports tool (see DESIGN.md on the leaf
// package import direction).
type EventSink interface {
	Emit(ctx context.Context, ev event.Event) error
}

// Handler is a registered tool's implementation. It receives a Context
// carrying the call, a cancellation token, and a way to emit incremental
// ToolUpdate progress, and returns the tool's Output or an error.
//
// A handler that wants to report partial progress calls ctx.Update; it
// does not emit ToolStart/ToolResult/ToolStatus itself — Runner.Invoke
// owns that lifecycle (spec §4.4 step 3).
type Handler func(ctx *Context) (Output, error)

// Context is the per-invocation handle passed to a Handler.
type Context struct {
	context.Context

	Call   Call
	Cancel *CancellationToken

	sink EventSink
}

// Update emits a ToolUpdate progress event carrying text, e.g. streamed
// partial output from a long-running tool. It is a no-op if the Context
// was built with a nil sink.
func (c *Context) Update(text string) error {
	if c.sink == nil {
		return nil
	}
	return c.sink.Emit(c.Context, event.Event{
		Kind:   event.KindToolUpdate,
		Tool:   c.Call.Tool,
		CallID: c.Call.CallID,
		Text:   text,
	})
}

// CheckCancelled returns AbortedError if the handler's cancellation token
// has fired or the underlying context has been cancelled, nil otherwise.
// Handlers that do meaningful work in a loop should call this between
// iterations (spec §4.4 "handlers observe cancellation cooperatively").
func (c *Context) CheckCancelled() error {
	if c.Cancel != nil && c.Cancel.Cancelled() {
		return AbortedError{Reason: c.Cancel.Reason()}
	}
	if err := c.Context.Err(); err != nil {
		return AbortedError{Reason: err.Error()}
	}
	return nil
}

// AbortedError signals a tool handler stopped early because its run was
// cancelled. graph/tool_run.go maps this onto graph.AbortedError so a
// cancelled tool call surfaces through the same run-abort path as any
// other cancellation source.
type AbortedError struct {
	Reason string
}

func (e AbortedError) Error() string {
	return fmt.Sprintf("tool: aborted: %s", e.Reason)
}
