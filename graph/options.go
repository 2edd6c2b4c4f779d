package graph

import (
	"context"

	"github.com/wrenlabs/agentgraph/graph/compaction"
	"github.com/wrenlabs/agentgraph/graph/event"
	"github.com/wrenlabs/agentgraph/graph/permission"
	"github.com/wrenlabs/agentgraph/graph/prune"
	"github.com/wrenlabs/agentgraph/graph/store"
	"github.com/wrenlabs/agentgraph/graph/tool"
)

// defaultMaxIterations bounds a run when the caller never calls
// WithMaxIterations, guarding against a graph whose edges never reach END.
const defaultMaxIterations = 1000

// EventRecordSink receives every fully sequenced record a run's
// RecordingSink produces, e.g. a store.RunLogStore.AppendRecord closure
// or graph/trace's replay sink (spec §4.2 "forwards to any configured
// EventRecordSink").
type EventRecordSink interface {
	EmitRecord(ctx context.Context, rec event.Record) error
}

// PermissionGate evaluates a permission string to a Decision. Both
// permission.Policy and permission.Session satisfy this (spec §9 "two
// implementations — pure policy vs session-with-overrides — must be
// substitutable").
type PermissionGate interface {
	Decide(permission string) permission.Decision
}

// Durability controls when a checkpoint write is allowed to race with the
// RunPaused event becoming observable (spec §4.3, §9 open question:
// "store-then-emit for Sync, emit-then-best-effort-store for Async").
type Durability string

const (
	// DurabilityNone performs no checkpoint persistence.
	DurabilityNone Durability = "none"
	// DurabilityAsync emits RunPaused first, then stores the checkpoint
	// best-effort; a store failure does not fail the pause.
	DurabilityAsync Durability = "async"
	// DurabilitySync stores the checkpoint before RunPaused is emitted;
	// a store failure fails the pause itself.
	DurabilitySync Durability = "sync"
)

// ExecutorConfig holds every Executor setting an Option can set. newConfig
// starts every Executor from a minimal configuration: defaultMaxIterations,
// no history, no stores, no tool pipeline. The zero value itself has a
// maxIterations of 0.
type ExecutorConfig struct {
	maxIterations int
	masked        map[string]bool

	sink            EventSink
	eventRecordSink EventRecordSink
	keepHistory     bool

	prune                 prune.Policy
	compactionPolicy      compaction.Policy
	compactionHook        compaction.Hook
	pruneBeforeCompaction bool

	checkpointStore store.CheckpointStore
	snapshotStore   store.SnapshotStore
	durability      Durability

	metrics *ExecutionMetrics

	toolRunner *tool.Runner
	permission PermissionGate

	costTracker *CostTracker
	costModel   string
}

// Option configures an Executor at construction time.
type Option func(*ExecutorConfig)

func newConfig(opts []Option) ExecutorConfig {
	cfg := ExecutorConfig{maxIterations: defaultMaxIterations, durability: DurabilityNone}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxIterations overrides the run-loop's iteration bound (spec §4.2
// "Iteration bound max_iterations").
func WithMaxIterations(n int) Option {
	return func(c *ExecutorConfig) { c.maxIterations = n }
}

// WithMaskedNodes marks nodes to be skipped during execution, counted as
// skipped in metrics rather than invoked (spec §4.2 step 2, ablation
// studies out of scope per spec §1 — this is only the masking primitive
// they'd be built on).
func WithMaskedNodes(nodes ...string) Option {
	return func(c *ExecutorConfig) {
		if c.masked == nil {
			c.masked = make(map[string]bool, len(nodes))
		}
		for _, n := range nodes {
			c.masked[n] = true
		}
	}
}

// WithEventSink sets the plain, user-facing event sink every node and
// tool lifecycle event (and run lifecycle event) is forwarded to.
func WithEventSink(sink EventSink) Option {
	return func(c *ExecutorConfig) { c.sink = sink }
}

// WithEventRecordSink sets the sink every sequenced EventRecord is
// forwarded to, in addition to history. Configuring one forces the
// RecordingSink wrapper to be installed even with no history or policy
// configured (spec §4.2 "RecordingSink is installed whenever history,
// record sink, prune policy, or a [token-consuming] compaction policy ...
// is present").
func WithEventRecordSink(sink EventRecordSink) Option {
	return func(c *ExecutorConfig) { c.eventRecordSink = sink }
}

// WithHistory enables in-memory retention of every sequenced record for
// the run, which prune and compaction operate over.
func WithHistory() Option {
	return func(c *ExecutorConfig) { c.keepHistory = true }
}

// WithPrune sets the prune policy applied between node iterations (spec
// §4.7).
func WithPrune(p prune.Policy, pruneBeforeCompaction bool) Option {
	return func(c *ExecutorConfig) {
		c.prune = p
		c.pruneBeforeCompaction = pruneBeforeCompaction
	}
}

// WithCompaction sets the compaction policy and its hook (spec §4.6).
func WithCompaction(p compaction.Policy, hook compaction.Hook) Option {
	return func(c *ExecutorConfig) {
		c.compactionPolicy = p
		c.compactionHook = hook
	}
}

// WithCheckpointStore sets the store used to persist checkpoints on
// interrupt, at the given durability (spec §4.3, §4.11).
func WithCheckpointStore(s store.CheckpointStore, durability Durability) Option {
	return func(c *ExecutorConfig) {
		c.checkpointStore = s
		c.durability = durability
	}
}

// WithSnapshotStore sets the store used to persist session snapshots.
func WithSnapshotStore(s store.SnapshotStore) Option {
	return func(c *ExecutorConfig) { c.snapshotStore = s }
}

// WithMetrics wires a prometheus-backed ExecutionMetrics into the
// executor.
func WithMetrics(m *ExecutionMetrics) Option {
	return func(c *ExecutorConfig) { c.metrics = m }
}

// WithTools configures the tool execution pipeline: the runner that
// drives a tool call's lifecycle events, and the gate that decides
// whether to run it at all (spec §4.4).
func WithTools(runner *tool.Runner, gate PermissionGate) Option {
	return func(c *ExecutorConfig) {
		c.toolRunner = runner
		c.permission = gate
	}
}

// WithCostTracking wires a CostTracker into the executor: every
// StepFinish event the run's RecordingSink observes is priced against
// model and attributed to the node that produced it.
func WithCostTracking(tracker *CostTracker, model string) Option {
	return func(c *ExecutorConfig) {
		c.costTracker = tracker
		c.costModel = model
	}
}

// requiresRecording reports whether the RecordingSink wrapper must be
// installed for a run (spec §4.2).
func (c ExecutorConfig) requiresRecording() bool {
	return c.keepHistory || c.eventRecordSink != nil || c.prune.Enabled ||
		c.compactionPolicy.RequiresTokenUsage() || c.costTracker != nil
}
