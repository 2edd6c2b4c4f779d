// Package trace implements the execution trace model, audit-log
// serialization, and replay-to-sink continuation (spec §4.10,
// component L).
package trace

import (
	"context"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// Kind selects which field of a trace Event is meaningful.
type Kind string

const (
	KindNodeStart Kind = "NodeStart"
	KindNodeFinish Kind = "NodeFinish"
	KindCompacted  Kind = "Compacted"
)

// Event is one entry of an ExecutionTrace (spec §4.10). ParentSpan is the
// supplemented field recovered from the original source's
// trace.Event.ParentSpan, letting nested node invocations (e.g. a
// sub-graph node) record which span they ran under.
type Event struct {
	Kind       Kind
	Node       string
	ParentSpan string
}

// Span records one node invocation's timing.
type Span struct {
	Node       string
	StartMS    int64
	DurationMS int64
}

// Trace accumulates events and spans for one run.
type Trace struct {
	Events []Event
	Spans  []Span
}

// New returns an empty Trace.
func New() *Trace {
	return &Trace{}
}

// RecordNodeStart appends a NodeStart event.
func (t *Trace) RecordNodeStart(node, parentSpan string) {
	t.Events = append(t.Events, Event{Kind: KindNodeStart, Node: node, ParentSpan: parentSpan})
}

// RecordNodeFinish appends a NodeFinish event and its span.
func (t *Trace) RecordNodeFinish(node string, startMS, durationMS int64) {
	t.Events = append(t.Events, Event{Kind: KindNodeFinish, Node: node})
	t.Spans = append(t.Spans, Span{Node: node, StartMS: startMS, DurationMS: durationMS})
}

// RecordCompacted appends a Compacted event.
func (t *Trace) RecordCompacted(node string) {
	t.Events = append(t.Events, Event{Kind: KindCompacted, Node: node})
}

// ToRuntimeEvent maps one trace Event to the runtime event.Event it
// replays as (spec §4.10): NodeStart → StepStart, NodeFinish → StepFinish
// with zeroed usage, Compacted → SessionCompacted with session_id
// "replay".
func ToRuntimeEvent(e Event) event.Event {
	switch e.Kind {
	case KindNodeStart:
		return event.Event{Kind: event.KindStepStart}
	case KindNodeFinish:
		return event.Event{Kind: event.KindStepFinish, Usage: event.TokenUsage{}}
	case KindCompacted:
		return event.Event{Kind: event.KindSessionCompacted, Summary: "replay", SessionID: "replay"}
	default:
		return event.Event{}
	}
}

// RecordSink receives fully sequenced event records, e.g. a
// graph.EventRecordSink or a store.RunLogStore.AppendRecord closure.
type RecordSink interface {
	EmitRecord(ctx context.Context, rec event.Record) error
}

// ReplayToRecordSink replays every event in t through sink in order,
// sequencing from a fresh Sequencer.
func ReplayToRecordSink(ctx context.Context, t *Trace, sink RecordSink) error {
	return ReplayToRecordSinkWithExisting(ctx, t, sink, nil)
}

// ReplayToRecordSinkWithExisting replays t through sink, starting
// sequencing at max(existing.seq) so replayed records never reuse
// sequence numbers from a prior audit log (spec §4.10).
func ReplayToRecordSinkWithExisting(ctx context.Context, t *Trace, sink RecordSink, existing []event.Record) error {
	seq := event.NewSequencerStartingAt(event.MaxSeq(existing))
	for _, e := range t.Events {
		rec := seq.Next(ToRuntimeEvent(e))
		if err := sink.EmitRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
