package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteCheckpointStore(t *testing.T) *SQLiteCheckpointStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	s, err := NewSQLiteCheckpointStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteCheckpointStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteCheckpointStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteCheckpointStore(t)

	rec := CheckpointRecord{RunID: "run-1", CheckpointID: "cp-1", NextNode: "n2", Iterations: 3}
	if err := s.SaveCheckpoint(ctx, rec); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	got, err := s.LoadCheckpoint(ctx, "run-1", "cp-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.NextNode != "n2" || got.Iterations != 3 {
		t.Fatalf("loaded = %+v", got)
	}
}

func TestSQLiteCheckpointStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteCheckpointStore(t)
	if _, err := s.LoadCheckpoint(ctx, "missing", "cp"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCheckpointStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteCheckpointStore(t)

	_ = s.SaveCheckpoint(ctx, CheckpointRecord{RunID: "run-1", CheckpointID: "cp-1", Iterations: 1})
	_ = s.SaveCheckpoint(ctx, CheckpointRecord{RunID: "run-1", CheckpointID: "cp-1", Iterations: 2})

	got, err := s.LoadCheckpoint(ctx, "run-1", "cp-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.Iterations != 2 {
		t.Fatalf("iterations = %d, want 2 (upsert should overwrite)", got.Iterations)
	}
}

func TestSQLiteCheckpointStoreListSortedAscending(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteCheckpointStore(t)

	for _, id := range []string{"cp-3", "cp-1", "cp-2"} {
		_ = s.SaveCheckpoint(ctx, CheckpointRecord{RunID: "run-1", CheckpointID: id})
	}

	ids, err := s.ListCheckpoints(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	want := []string{"cp-1", "cp-2", "cp-3"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}
