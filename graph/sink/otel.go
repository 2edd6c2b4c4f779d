package sink

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// Otel emits one span per StepStart/StepFinish pair and records tool
// lifecycle events as span events on the currently open step span
// (spec §4 component A observability; teacher's emit.OTelEmitter pattern
// generalized to the tagged event.Event).
type Otel struct {
	tracer trace.Tracer

	mu   sync.Mutex
	open map[string]openSpan // run_id -> currently open step span
}

type openSpan struct {
	span trace.Span
	ctx  context.Context
}

// NewOtel returns an Otel sink using tracer to start spans.
func NewOtel(tracer trace.Tracer) *Otel {
	return &Otel{tracer: tracer, open: make(map[string]openSpan)}
}

// Emit implements graph.EventSink.
func (o *Otel) Emit(ctx context.Context, ev event.Event) error {
	switch ev.Kind {
	case event.KindStepStart:
		spanCtx, span := o.tracer.Start(ctx, "graph.step")
		o.mu.Lock()
		o.open[ev.RunID] = openSpan{span: span, ctx: spanCtx}
		o.mu.Unlock()

	case event.KindStepFinish:
		o.mu.Lock()
		os, ok := o.open[ev.RunID]
		delete(o.open, ev.RunID)
		o.mu.Unlock()
		if ok {
			os.span.SetAttributes(
				attribute.Int("tokens.total", ev.Usage.Total()),
				attribute.Float64("cost", ev.Cost),
			)
			os.span.End()
		}

	case event.KindToolStart, event.KindToolResult, event.KindToolError:
		o.mu.Lock()
		os, ok := o.open[ev.RunID]
		o.mu.Unlock()
		if ok {
			os.span.AddEvent(string(ev.Kind), trace.WithAttributes(
				attribute.String("tool", ev.Tool),
				attribute.String("call_id", ev.CallID),
			))
			if ev.Kind == event.KindToolError {
				os.span.SetStatus(codes.Error, ev.Error)
			}
		}

	case event.KindRunFailed:
		o.mu.Lock()
		os, ok := o.open[ev.RunID]
		o.mu.Unlock()
		if ok {
			os.span.SetStatus(codes.Error, ev.Reason)
		}
	}
	return nil
}
