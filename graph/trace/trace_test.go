package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/wrenlabs/agentgraph/graph/event"
)

func TestToRuntimeEventMapping(t *testing.T) {
	if got := ToRuntimeEvent(Event{Kind: KindNodeStart}); got.Kind != event.KindStepStart {
		t.Fatalf("NodeStart -> %v, want StepStart", got.Kind)
	}
	finish := ToRuntimeEvent(Event{Kind: KindNodeFinish})
	if finish.Kind != event.KindStepFinish || finish.Usage.Total() != 0 {
		t.Fatalf("NodeFinish -> %+v, want zeroed StepFinish", finish)
	}
	compacted := ToRuntimeEvent(Event{Kind: KindCompacted})
	if compacted.Kind != event.KindSessionCompacted || compacted.Summary != "replay" {
		t.Fatalf("Compacted -> %+v", compacted)
	}
}

type recordingSink struct {
	records []event.Record
}

func (r *recordingSink) EmitRecord(ctx context.Context, rec event.Record) error {
	r.records = append(r.records, rec)
	return nil
}

func TestReplayToRecordSinkWithExistingContinuesSeq(t *testing.T) {
	tr := New()
	tr.RecordNodeStart("n1", "")
	tr.RecordNodeFinish("n1", 0, 10)

	existing := []event.Record{{Meta: event.Meta{Seq: 41}}}
	sink := &recordingSink{}
	if err := ReplayToRecordSinkWithExisting(context.Background(), tr, sink, existing); err != nil {
		t.Fatalf("ReplayToRecordSinkWithExisting: %v", err)
	}
	if len(sink.records) != 2 {
		t.Fatalf("records = %+v", sink.records)
	}
	if sink.records[0].Meta.Seq != 42 || sink.records[1].Meta.Seq != 43 {
		t.Fatalf("seqs = %d,%d, want 42,43", sink.records[0].Meta.Seq, sink.records[1].Meta.Seq)
	}
}

func TestAuditLogVersionedRoundTrip(t *testing.T) {
	records := []event.Record{{Meta: event.Meta{Seq: 1}, Event: event.Event{Kind: event.KindTextDelta}}}
	data, err := MarshalAuditLog(records)
	if err != nil {
		t.Fatalf("MarshalAuditLog: %v", err)
	}
	got, err := UnmarshalAuditLog(data)
	if err != nil {
		t.Fatalf("UnmarshalAuditLog: %v", err)
	}
	if len(got) != 1 || got[0].Meta.Seq != 1 {
		t.Fatalf("got = %+v", got)
	}
}

func TestAuditLogLegacyBareArrayAccepted(t *testing.T) {
	rec := event.Record{Meta: event.Meta{Seq: 5}, Event: event.Event{Kind: event.KindTextFinal}}
	data, _ := json.Marshal([]event.Record{rec})

	got, err := UnmarshalAuditLog(data)
	if err != nil {
		t.Fatalf("UnmarshalAuditLog: %v", err)
	}
	if len(got) != 1 || got[0].Meta.Seq != 5 {
		t.Fatalf("got = %+v", got)
	}
}

func TestAuditLogUnknownVersionFails(t *testing.T) {
	data := []byte(`{"version":2,"records":[]}`)
	if _, err := UnmarshalAuditLog(data); err == nil {
		t.Fatal("expected error for unknown version")
	}
}

func TestAuditLogSortsByComparator(t *testing.T) {
	data := []byte(`{"version":1,"records":[
		{"meta":{"event_id":"b","timestamp_ms":1,"seq":2},"event":{"TextDelta":{}}},
		{"meta":{"event_id":"a","timestamp_ms":1,"seq":1},"event":{"TextDelta":{}}}
	]}`)
	got, err := UnmarshalAuditLog(data)
	if err != nil {
		t.Fatalf("UnmarshalAuditLog: %v", err)
	}
	if got[0].Meta.Seq != 1 || got[1].Meta.Seq != 2 {
		t.Fatalf("got not sorted: %+v", got)
	}
}

type fakeReader struct{}

func (fakeReader) ReadAuditLog(ctx context.Context, name string) ([]byte, error) {
	if name == "bad" {
		return nil, fmt.Errorf("boom")
	}
	return []byte(`{"version":1,"records":[]}`), nil
}

func TestReadAuditLogsConcurrent(t *testing.T) {
	results, err := ReadAuditLogs(context.Background(), fakeReader{}, []string{"run-1", "run-2"})
	if err != nil {
		t.Fatalf("ReadAuditLogs: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
}

func TestReadAuditLogsPropagatesError(t *testing.T) {
	if _, err := ReadAuditLogs(context.Background(), fakeReader{}, []string{"bad"}); err == nil {
		t.Fatal("expected error")
	}
}
