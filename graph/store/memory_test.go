package store

import (
	"context"
	"testing"

	"github.com/wrenlabs/agentgraph/graph/event"
)

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveSnapshot(ctx, Snapshot{Version: 1, SessionID: "s1"}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, err := s.LoadSnapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.SessionID != "s1" {
		t.Fatalf("got = %+v", got)
	}
}

func TestMemoryStoreRunLogAppendOrderPreserved(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.AppendRecord(ctx, "run-1", event.Record{Meta: event.Meta{Seq: 1}})
	_ = s.AppendRecord(ctx, "run-1", event.Record{Meta: event.Meta{Seq: 2}})

	records, _ := s.ReadRecords(ctx, "run-1")
	if len(records) != 2 || records[0].Meta.Seq != 1 || records[1].Meta.Seq != 2 {
		t.Fatalf("records = %+v", records)
	}
}

func TestMemoryStoreReadRecordsIsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.AppendRecord(ctx, "run-1", event.Record{Meta: event.Meta{Seq: 1}})

	records, _ := s.ReadRecords(ctx, "run-1")
	records[0].Meta.Seq = 999

	again, _ := s.ReadRecords(ctx, "run-1")
	if again[0].Meta.Seq != 1 {
		t.Fatalf("mutating returned slice affected internal state: %+v", again)
	}
}

func TestMemoryStoreCheckpoints(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.SaveCheckpoint(ctx, CheckpointRecord{RunID: "run-1", CheckpointID: "cp-1", Iterations: 5})

	got, err := s.LoadCheckpoint(ctx, "run-1", "cp-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.Iterations != 5 {
		t.Fatalf("got = %+v", got)
	}

	ids, err := s.ListCheckpoints(ctx, "run-1")
	if err != nil || len(ids) != 1 || ids[0] != "cp-1" {
		t.Fatalf("ids = %v, err = %v", ids, err)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if _, err := s.LoadSnapshot(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := s.LoadCheckpoint(ctx, "missing", "cp"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
