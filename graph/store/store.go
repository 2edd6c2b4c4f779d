// Package store implements the file-backed and SQL-backed persistence
// layer for session snapshots, run logs and checkpoints (spec §4.11,
// component K). Attachment storage lives in graph/attachment.
package store

import (
	"context"
	"errors"

	"github.com/wrenlabs/agentgraph/graph/event"
	"github.com/wrenlabs/agentgraph/graph/session"
)

// ErrNotFound is returned when a requested session, run or checkpoint
// does not exist.
var ErrNotFound = errors.New("not found")

// Compaction is one entry in a SessionSnapshot's compactions list.
type Compaction struct {
	Summary         string `json:"summary"`
	TruncatedBefore int    `json:"truncated_before"`
}

// Trace is the snapshot-embedded view of an execution trace (spec §6
// "trace":{"events":[…],"spans":[…]}). Its elements are store's own
// TraceEvent and Span types, so store does not import graph/trace.
type Trace struct {
	Events []TraceEvent `json:"events"`
	Spans  []Span       `json:"spans"`
}

// TraceEvent carries graph/trace.Event's fields under snake_case JSON
// keys. graph/trace.Event has no JSON tags, so its own encoding uses the
// Go field names instead.
type TraceEvent struct {
	Kind       string `json:"kind"`
	Node       string `json:"node,omitempty"`
	ParentSpan string `json:"parent_span,omitempty"`
}

// Span carries graph/trace.Span's fields under snake_case JSON keys.
type Span struct {
	Node       string `json:"node"`
	StartMS    int64  `json:"start_ms"`
	DurationMS int64  `json:"duration_ms"`
}

// Snapshot is the versioned, persisted session snapshot (spec §3, §6).
type Snapshot struct {
	Version     int               `json:"version"`
	SessionID   string            `json:"session_id"`
	Messages    []SnapshotMessage `json:"messages"`
	Trace       Trace             `json:"trace"`
	Compactions []Compaction      `json:"compactions"`
}

// SnapshotMessage is the reduced {role, content} form a snapshot captures
// for each finalized Message (spec §6: "Messages capture only
// concatenated text of TextDelta/TextFinal parts").
type SnapshotMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToSnapshotMessages reduces session messages to their snapshot form.
func ToSnapshotMessages(messages []session.Message) []SnapshotMessage {
	out := make([]SnapshotMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, SnapshotMessage{Role: string(m.Role), Content: m.Text()})
	}
	return out
}

var knownRoles = map[string]bool{
	string(session.RoleSystem): true, string(session.RoleUser): true,
	string(session.RoleAssistant): true, string(session.RoleTool): true,
}

// FromSnapshotMessages filters out unknown roles, the to_messages
// behavior spec §6 requires on read ("Unknown roles on read are skipped
// by to_messages").
func FromSnapshotMessages(messages []SnapshotMessage) []SnapshotMessage {
	out := make([]SnapshotMessage, 0, len(messages))
	for _, m := range messages {
		if knownRoles[m.Role] {
			out = append(out, m)
		}
	}
	return out
}

// SnapshotStore persists and retrieves versioned session snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error)
}

// RunLogStore appends event records to a run's append-only log and reads
// them back in persisted order.
type RunLogStore interface {
	AppendRecord(ctx context.Context, runID string, rec event.Record) error
	ReadRecords(ctx context.Context, runID string) ([]event.Record, error)
}

// CheckpointRecord is the persisted form of a Checkpoint (spec §6).
type CheckpointRecord struct {
	RunID             string             `json:"run_id"`
	CheckpointID      string             `json:"checkpoint_id"`
	CreatedAt         string             `json:"created_at"`
	State             map[string]any     `json:"state"`
	NextNode          string             `json:"next_node"`
	Iterations        int                `json:"iterations"`
	PendingInterrupts []PendingInterrupt `json:"pending_interrupts"`
	ResumeValues      map[string]any     `json:"resume_values"`
}

// PendingInterrupt is the persisted form of one suspended Interrupt.
type PendingInterrupt struct {
	ID    string `json:"id"`
	Node  string `json:"node"`
	Value any    `json:"value"`
}

// CheckpointStore persists and retrieves run checkpoints, and lists
// checkpoint ids for a run in ascending order (spec §4.11 "list(run_id)
// returns all *.json stems sorted ascending").
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, rec CheckpointRecord) error
	LoadCheckpoint(ctx context.Context, runID, checkpointID string) (CheckpointRecord, error)
	ListCheckpoints(ctx context.Context, runID string) ([]string, error)
}
