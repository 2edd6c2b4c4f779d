package graph

import (
	"context"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// EventSink receives events emitted during a node's execution. When the
// executor config needs history, a record sink, pruning, token-aware
// compaction or cost tracking, the executor wraps the caller's sink in a
// recording sink that stamps each event with sequencing metadata;
// otherwise the caller's sink receives events directly.
type EventSink interface {
	Emit(ctx context.Context, ev event.Event) error
}

// NodeHandler executes a node's non-streaming logic: given the current
// state it returns the new state, or an error. A handler that needs to
// suspend the run returns an *Interrupted.
type NodeHandler func(ctx context.Context, state State) (State, error)

// StreamNodeHandler is the streaming variant of NodeHandler: it receives
// an EventSink to emit incremental events (text deltas, tool lifecycle,
// ...) as it runs. If a node has no StreamHandler, streaming degrades to
// invoking Handler and emitting nothing mid-flight (spec §4.1).
type StreamNodeHandler func(ctx context.Context, state State, sink EventSink) (State, error)

// NodeSpec is one named work unit in a Graph. When StreamHandler is set
// it is the one invoked and Handler may be nil; when StreamHandler is
// nil, execution falls back to Handler (spec §4.1 degrade rule).
type NodeSpec struct {
	Name          string
	Handler       NodeHandler
	StreamHandler StreamNodeHandler
}

// run invokes the node in streaming mode if a stream handler is present,
// otherwise falls back to the plain handler.
func (n NodeSpec) run(ctx context.Context, state State, sink EventSink) (State, error) {
	if n.StreamHandler != nil {
		return n.StreamHandler(ctx, state, sink)
	}
	return n.Handler(ctx, state)
}
