package graph

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wrenlabs/agentgraph/graph/event"
	"github.com/wrenlabs/agentgraph/graph/permission"
	"github.com/wrenlabs/agentgraph/graph/tool"
)

// RunTool drives one tool call through the permission gate and the tool
// pipeline (spec §4.4): a cancellation check, then the permission
// decision for permName (Allow proceeds, Ask raises an Interrupt carrying
// a permission.Request, Deny fails with PermissionDeniedError), then
// delegates the lifecycle event sequence itself to the configured
// tool.Runner. Node handlers call this from within their NodeHandler/
// StreamNodeHandler body; its errors are the ones the run loop already
// knows how to classify (*Interrupted, *PermissionDeniedError,
// *ExecutionError, *AbortedError).
func (x *Executor) RunTool(ctx context.Context, node, permName string, call tool.Call, sink EventSink, cancel *tool.CancellationToken) (tool.Output, error) {
	if cancel != nil && cancel.Cancelled() {
		return tool.Output{}, &AbortedError{Reason: cancel.Reason()}
	}
	if x.cfg.toolRunner == nil {
		return tool.Output{}, NewExecutionError("tool:"+call.Tool, "no tool runner configured", nil)
	}

	if x.cfg.permission != nil {
		switch x.cfg.permission.Decide(permName) {
		case permission.Deny:
			return tool.Output{}, &PermissionDeniedError{Permission: permName}
		case permission.Ask:
			metadata, _ := json.Marshal(struct {
				Tool   string          `json:"tool"`
				CallID string          `json:"call_id"`
				Input  json.RawMessage `json:"input"`
			}{Tool: call.Tool, CallID: call.CallID, Input: call.Input})
			req := permission.Request{Permission: permName}
			if sink != nil {
				_ = sink.Emit(ctx, event.Event{
					Kind: event.KindPermAsked, Permission: permName,
					Tool: call.Tool, CallID: call.CallID, Metadata: metadata,
				})
			}
			return tool.Output{}, &Interrupted{Pending: []Interrupt{
				{ID: "permission:" + permName, Node: node, Value: req},
			}}
		}
	}

	out, err := x.cfg.toolRunner.Invoke(ctx, call, sink, cancel)
	if err != nil {
		x.cfg.metrics.observeToolError(call.Tool)
		return tool.Output{}, classifyToolError(call.Tool, err)
	}
	return out, nil
}

// classifyToolError maps graph/tool's error taxonomy onto graph's own
// (spec §7): a cancellation surfaced through a HandlerError becomes an
// AbortedError, not a generic execution failure; everything else becomes
// an ExecutionError scoped to "tool:<name>".
func classifyToolError(toolName string, err error) error {
	var aborted tool.AbortedError
	if errors.As(err, &aborted) {
		return &AbortedError{Reason: aborted.Reason}
	}

	var notFound tool.ErrToolNotFound
	if errors.As(err, &notFound) {
		return NewExecutionError("tool:"+toolName, "tool not registered", err)
	}

	var sinkErr *tool.SinkError
	if errors.As(err, &sinkErr) {
		return NewExecutionError("event_sink:*", sinkErr.Error(), err)
	}

	var handlerErr *tool.HandlerError
	if errors.As(err, &handlerErr) {
		return NewExecutionError("tool:"+toolName, handlerErr.Error(), err)
	}

	var normErr *tool.NormalizeError
	if errors.As(err, &normErr) {
		return NewExecutionError("tool:"+toolName, normErr.Error(), err)
	}

	return NewExecutionError("tool:"+toolName, err.Error(), err)
}
