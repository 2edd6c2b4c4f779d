// Package sink implements the EventSink backends applications wire into
// the executor: a no-op sink, a structured logger, an OpenTelemetry
// tracer, and a buffering decorator (spec §1 "EventSink" external
// interface; teacher's graph/emit package, generalized to the tagged
// event.Event).
package sink

import (
	"context"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// Null discards every event. Useful as a default when a caller has no
// observability backend wired up yet.
type Null struct{}

// Emit implements graph.EventSink; it always succeeds.
func (Null) Emit(ctx context.Context, ev event.Event) error {
	return nil
}
