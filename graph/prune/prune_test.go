package prune

import (
	"testing"

	"github.com/wrenlabs/agentgraph/graph/event"
)

func records(kinds ...event.Kind) []event.Record {
	out := make([]event.Record, len(kinds))
	for i, k := range kinds {
		out[i] = event.Record{Meta: event.Meta{Seq: uint64(i + 1)}, Event: event.Event{Kind: k}}
	}
	return out
}

func TestApplyDisabledNoOp(t *testing.T) {
	in := records(event.KindToolStart, event.KindToolResult)
	out, removed := (Policy{Enabled: false}).Apply(in)
	if removed != 0 || len(out) != len(in) {
		t.Fatalf("disabled policy should not remove anything: removed=%d len=%d", removed, len(out))
	}
}

func TestApplyRetainsNonToolEventsAlways(t *testing.T) {
	in := records(event.KindTextDelta, event.KindToolStart, event.KindToolResult, event.KindTextFinal)
	out, removed := (Policy{Enabled: true, RetainRecent: 0}).Apply(in)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if len(out) != 2 {
		t.Fatalf("out = %+v", out)
	}
	for _, r := range out {
		if r.Event.Kind != event.KindTextDelta && r.Event.Kind != event.KindTextFinal {
			t.Fatalf("unexpected surviving kind %v", r.Event.Kind)
		}
	}
}

func TestApplyRetainsMostRecentToolEvents(t *testing.T) {
	in := records(
		event.KindToolStart, event.KindToolResult, // call 1
		event.KindToolStart, event.KindToolResult, // call 2
		event.KindToolStart, event.KindToolResult, // call 3
	)
	out, removed := (Policy{Enabled: true, RetainRecent: 2}).Apply(in)
	if removed != 4 {
		t.Fatalf("removed = %d, want 4", removed)
	}
	if len(out) != 2 {
		t.Fatalf("out len = %d, want 2", len(out))
	}
	// The surviving two must be the last call's ToolStart/ToolResult, i.e.
	// the highest original seq numbers.
	if out[0].Meta.Seq != 5 || out[1].Meta.Seq != 6 {
		t.Fatalf("surviving seqs = %d,%d, want 5,6", out[0].Meta.Seq, out[1].Meta.Seq)
	}
}

func TestApplyBelowRetainLimitRemovesNothing(t *testing.T) {
	in := records(event.KindToolStart, event.KindToolResult)
	out, removed := (Policy{Enabled: true, RetainRecent: 10}).Apply(in)
	if removed != 0 || len(out) != 2 {
		t.Fatalf("removed=%d len=%d", removed, len(out))
	}
}
