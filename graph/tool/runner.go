package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wrenlabs/agentgraph/graph/attachment"
	"github.com/wrenlabs/agentgraph/graph/event"
)

// SinkError wraps a failure to emit a lifecycle event. It is always a
// hard stop: a sink that cannot accept events leaves the run's event
// history incomplete, which graph.Executor treats as fatal rather than
// attempting to continue with a gap (spec §4.2 "history must be total").
type SinkError struct {
	Kind event.Kind
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("tool: emit %s: %v", e.Kind, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// HandlerError wraps a tool handler's own returned error, keeping it
// distinguishable from a SinkError or NormalizeError when the caller
// decides how to classify the failure (spec §7 "tool errors are never
// silently swallowed; the handler's error is always observable").
type HandlerError struct {
	Tool string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// NormalizeError wraps a failure to normalize a handler's returned
// attachments (missing mime type, oversize payload with no store
// configured).
type NormalizeError struct {
	Tool string
	Err  error
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("tool %s: normalize attachment: %v", e.Tool, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// ErrToolNotFound is returned when a Call names a tool the Runner's
// Registry has no handler for.
type ErrToolNotFound struct {
	Tool string
}

func (e ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: %q not registered", e.Tool)
}

// Runner drives one tool call through the full lifecycle event sequence
// spec §4.4 step 3 defines: ToolStatus(pending) → ToolStart →
// ToolStatus(running) → handler → [normalize attachments] →
// ToolStatus(completed) → ToolAttachment* → ToolResult, or on failure
// ToolStatus(error) → ToolError.
type Runner struct {
	Registry    *Registry
	Attachments attachment.Policy
	Store       attachment.Store
}

// NewRunner returns a Runner backed by reg, applying policy to any
// attachments handlers return and externalizing oversize ones through
// store (which may be nil if no handler is expected to exceed the inline
// threshold).
func NewRunner(reg *Registry, policy attachment.Policy, store attachment.Store) *Runner {
	return &Runner{Registry: reg, Attachments: policy, Store: store}
}

// Invoke runs call's handler to completion, emitting every lifecycle
// event on sink in order. cancel is threaded into the Context the
// handler receives so it can observe cooperative cancellation; it may be
// nil, in which case only ctx's own cancellation is observable.
func (r *Runner) Invoke(ctx context.Context, call Call, sink EventSink, cancel *CancellationToken) (Output, error) {
	emit := func(ev event.Event) error {
		ev.Tool = call.Tool
		ev.CallID = call.CallID
		if sink == nil {
			return nil
		}
		if err := sink.Emit(ctx, ev); err != nil {
			return &SinkError{Kind: ev.Kind, Err: err}
		}
		return nil
	}

	if err := emit(event.Event{Kind: event.KindToolStatus, ToolStatus: event.ToolStatusPending}); err != nil {
		return Output{}, err
	}
	if err := emit(event.Event{Kind: event.KindToolStart, ToolInput: call.Input}); err != nil {
		return Output{}, err
	}
	if err := emit(event.Event{Kind: event.KindToolStatus, ToolStatus: event.ToolStatusRunning}); err != nil {
		return Output{}, err
	}

	handler, ok := r.Registry.Handler(call.Tool)
	if !ok {
		return r.fail(ctx, emit, call, ErrToolNotFound{Tool: call.Tool})
	}

	out, err := handler(&Context{Context: ctx, Call: call, Cancel: cancel, sink: sink})
	if err != nil {
		return r.fail(ctx, emit, call, &HandlerError{Tool: call.Tool, Err: err})
	}

	normalized := make([]attachment.Attachment, 0, len(out.Attachments))
	for _, att := range out.Attachments {
		n, nerr := r.Attachments.Normalize(att, r.Store)
		if nerr != nil {
			return r.fail(ctx, emit, call, &NormalizeError{Tool: call.Tool, Err: nerr})
		}
		normalized = append(normalized, n)
	}
	out.Attachments = normalized

	if err := emit(event.Event{Kind: event.KindToolStatus, ToolStatus: event.ToolStatusCompleted}); err != nil {
		return Output{}, err
	}
	for _, att := range normalized {
		data, merr := json.Marshal(att)
		if merr != nil {
			return Output{}, fmt.Errorf("tool %s: marshal attachment: %w", call.Tool, merr)
		}
		if err := emit(event.Event{Kind: event.KindToolAttach, Attachment: data}); err != nil {
			return Output{}, err
		}
	}

	outputData, merr := json.Marshal(out)
	if merr != nil {
		return Output{}, fmt.Errorf("tool %s: marshal output: %w", call.Tool, merr)
	}
	if err := emit(event.Event{Kind: event.KindToolResult, ToolOutput: outputData}); err != nil {
		return Output{}, err
	}

	return out, nil
}

// fail emits the ToolStatus(error) → ToolError pair and returns cause
// unchanged, so callers can classify it by type.
func (r *Runner) fail(ctx context.Context, emit func(event.Event) error, call Call, cause error) (Output, error) {
	if err := emit(event.Event{Kind: event.KindToolStatus, ToolStatus: event.ToolStatusError}); err != nil {
		return Output{}, err
	}
	if err := emit(event.Event{Kind: event.KindToolError, Error: cause.Error()}); err != nil {
		return Output{}, err
	}
	return Output{}, cause
}
