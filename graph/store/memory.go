package store

import (
	"context"
	"sort"
	"sync"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// MemoryStore implements SnapshotStore, RunLogStore and CheckpointStore
// entirely in process memory. It is what tests and short-lived runs use
// when a filesystem isn't warranted.
type MemoryStore struct {
	mu          sync.RWMutex
	snapshots   map[string]Snapshot
	runLogs     map[string][]event.Record
	checkpoints map[string]map[string]CheckpointRecord // runID -> checkpointID -> record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:   make(map[string]Snapshot),
		runLogs:     make(map[string][]event.Record),
		checkpoints: make(map[string]map[string]CheckpointRecord),
	}
}

func (m *MemoryStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.SessionID] = snap
	return nil
}

func (m *MemoryStore) LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[sessionID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemoryStore) AppendRecord(ctx context.Context, runID string, rec event.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runLogs[runID] = append(m.runLogs[runID], rec)
	return nil
}

func (m *MemoryStore) ReadRecords(ctx context.Context, runID string) ([]event.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.runLogs[runID]
	out := make([]event.Record, len(records))
	copy(out, records)
	return out, nil
}

func (m *MemoryStore) SaveCheckpoint(ctx context.Context, rec CheckpointRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkpoints[rec.RunID] == nil {
		m.checkpoints[rec.RunID] = make(map[string]CheckpointRecord)
	}
	m.checkpoints[rec.RunID][rec.CheckpointID] = rec
	return nil
}

func (m *MemoryStore) LoadCheckpoint(ctx context.Context, runID, checkpointID string) (CheckpointRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID, ok := m.checkpoints[runID]
	if !ok {
		return CheckpointRecord{}, ErrNotFound
	}
	rec, ok := byID[checkpointID]
	if !ok {
		return CheckpointRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) ListCheckpoints(ctx context.Context, runID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID := m.checkpoints[runID]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
