package graph

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wrenlabs/agentgraph/graph/compaction"
	"github.com/wrenlabs/agentgraph/graph/event"
	"github.com/wrenlabs/agentgraph/graph/sink"
	"github.com/wrenlabs/agentgraph/graph/store"
)

// Executor runs a Compiled graph: the iteration loop, masking, routing
// re-evaluation, the recording sink installation, compaction/prune
// ordering, and run-lifecycle event emission (spec §4.2, component J).
// One Executor may drive many runs concurrently; a Compiled graph is
// immutable and shared.
type Executor struct {
	compiled *Compiled
	cfg      ExecutorConfig
}

// NewExecutor builds an Executor from a compiled graph and options.
func NewExecutor(compiled *Compiled, opts ...Option) *Executor {
	return &Executor{compiled: compiled, cfg: newConfig(opts)}
}

// Status is the terminal disposition InvokeResumable/Resume report.
type Status string

const (
	StatusComplete    Status = "complete"
	StatusInterrupted Status = "interrupted"
)

// Result is what a resumable run produces: either a final State (Complete)
// or a Checkpoint to resume later (Interrupted).
type Result struct {
	Status     Status
	State      State
	Checkpoint *Checkpoint
}

// Invoke runs to completion or failure, without checkpoint/resume
// support: an Interrupted result is itself reported as an error, since
// the caller has no way to act on the checkpoint through this entry
// point. Use InvokeResumable for graphs that may interrupt.
func (x *Executor) Invoke(ctx context.Context, state State) (State, error) {
	result, err := x.InvokeResumable(ctx, state)
	if err != nil {
		return State{}, err
	}
	if result.Status != StatusComplete {
		return State{}, NewExecutionError("", "run interrupted; use InvokeResumable", nil)
	}
	return result.State, nil
}

// InvokeResumable starts a fresh run at the compiled graph's start node,
// emitting RunStarted before the first iteration and RunCompleted/
// RunFailed/RunAborted at its end (spec §4.2).
func (x *Executor) InvokeResumable(ctx context.Context, state State) (Result, error) {
	runID := newRunID()
	emit, rs := x.installSink()
	if err := x.emitRunEvent(ctx, emit, runID, event.KindRunStarted, ""); err != nil {
		return Result{}, err
	}
	return x.runLoop(ctx, runID, state, 0, nil, x.compiled.start, emit, rs)
}

// Resume re-enters a suspended run at its checkpoint's next_node, having
// merged cmd into the checkpoint's resume values per the §4.3 resume
// contract, and injected them into state under resume:<key>.
func (x *Executor) Resume(ctx context.Context, cp Checkpoint, cmd Command) (Result, error) {
	merged, err := mergeResumeValues(cp, cmd)
	if err != nil {
		return Result{}, err
	}
	state := cp.State
	for k, v := range merged {
		state = state.Set(resumeKeyForID(k), v)
	}

	emit, rs := x.installSink()
	if err := x.emitRunEvent(ctx, emit, cp.RunID, event.KindRunResumed, ""); err != nil {
		return Result{}, err
	}
	return x.runLoop(ctx, cp.RunID, state, cp.Iterations, merged, cp.NextNode, emit, rs)
}

// ResumeFromStore loads a persisted checkpoint and resumes it (spec
// §4.3 "resume_from_store").
func (x *Executor) ResumeFromStore(ctx context.Context, runID, checkpointID string, cmd Command) (Result, error) {
	if x.cfg.checkpointStore == nil {
		return Result{}, NewExecutionError("checkpoint_store", "no checkpoint store configured", nil)
	}
	rec, err := x.cfg.checkpointStore.LoadCheckpoint(ctx, runID, checkpointID)
	if err != nil {
		return Result{}, err
	}
	return x.Resume(ctx, fromCheckpointRecord(rec), cmd)
}

// ResumeLatestFromStore resumes the lexicographically last checkpoint id
// for runID (spec §4.3 "resume_latest_from_store ... selects the
// lexicographically last checkpoint id").
func (x *Executor) ResumeLatestFromStore(ctx context.Context, runID string, cmd Command) (Result, error) {
	if x.cfg.checkpointStore == nil {
		return Result{}, NewExecutionError("checkpoint_store", "no checkpoint store configured", nil)
	}
	ids, err := x.cfg.checkpointStore.ListCheckpoints(ctx, runID)
	if err != nil {
		return Result{}, err
	}
	if len(ids) == 0 {
		return Result{}, NewExecutionError("checkpoint_store", "no checkpoints for run", nil)
	}
	return x.ResumeFromStore(ctx, runID, ids[len(ids)-1], cmd)
}

// runLoop is the §4.2 run loop shared by InvokeResumable and Resume.
func (x *Executor) runLoop(ctx context.Context, runID string, state State, iterations int, resumeValues map[string]any, current string, emit EventSink, rs *recordingSink) (Result, error) {
	for {
		if current == END {
			if err := x.emitRunEvent(ctx, emit, runID, event.KindRunCompleted, ""); err != nil {
				return Result{}, err
			}
			return Result{Status: StatusComplete, State: state}, nil
		}

		iterations++
		x.cfg.metrics.observeIteration()
		if iterations > x.cfg.maxIterations {
			x.emitRunEvent(ctx, emit, runID, event.KindRunFailed, ErrMaxIterationsExceeded.Error())
			return Result{}, ErrMaxIterationsExceeded
		}

		if x.cfg.masked[current] {
			x.cfg.metrics.observeMasked()
			next, err := x.compiled.resolveNext(current, state)
			if err != nil {
				x.emitRunEvent(ctx, emit, runID, event.KindRunFailed, err.Error())
				return Result{}, err
			}
			current = next
			continue
		}

		stepState := state
		for key, value := range resumeValues {
			stepState = stepState.Set(resumeKeyForID(key), value)
		}

		spec, ok := x.compiled.nodes[current]
		if !ok {
			nerr := &NodeNotFoundError{Node: current}
			x.emitRunEvent(ctx, emit, runID, event.KindRunFailed, nerr.Error())
			return Result{}, nerr
		}

		start := time.Now()
		newState, err := spec.run(ctx, stepState, emit)
		x.cfg.metrics.observeNodeLatency(current, time.Since(start))

		if err != nil {
			if interrupted, ok := asInterrupted(err); ok {
				cp := Checkpoint{
					RunID:             runID,
					CheckpointID:      newCheckpointID(),
					CreatedAt:         nowRFC3339(),
					State:             state,
					NextNode:          current,
					PendingInterrupts: interrupted.Pending,
					Iterations:        iterations,
					ResumeValues:      copyResumeValues(resumeValues),
				}
				if perr := x.pause(ctx, emit, cp); perr != nil {
					return Result{}, perr
				}
				return Result{Status: StatusInterrupted, Checkpoint: &cp}, nil
			}

			var aborted *AbortedError
			if errors.As(err, &aborted) {
				x.emitRunEvent(ctx, emit, runID, event.KindRunAborted, aborted.Reason)
				return Result{}, err
			}

			x.emitRunEvent(ctx, emit, runID, event.KindRunFailed, err.Error())
			return Result{}, err
		}

		state = newState

		if rs != nil {
			x.afterStep(ctx, emit, rs, state, current)
		}

		next, err := x.compiled.resolveNext(current, state)
		if err != nil {
			x.emitRunEvent(ctx, emit, runID, event.KindRunFailed, err.Error())
			return Result{}, err
		}
		current = next
	}
}

// pause persists cp (if a checkpoint store is configured) and emits
// RunPaused, ordering the two per the configured Durability (spec §9
// open question: store-then-emit for Sync, emit-then-best-effort-store
// for Async).
func (x *Executor) pause(ctx context.Context, emit EventSink, cp Checkpoint) error {
	rec := toCheckpointRecord(cp)
	switch x.cfg.durability {
	case DurabilitySync:
		if x.cfg.checkpointStore != nil {
			if err := x.cfg.checkpointStore.SaveCheckpoint(ctx, rec); err != nil {
				return NewExecutionError("checkpoint_store", "save checkpoint", err)
			}
		}
		return x.emitRunEvent(ctx, emit, cp.RunID, event.KindRunPaused, "")
	case DurabilityAsync:
		err := x.emitRunEvent(ctx, emit, cp.RunID, event.KindRunPaused, "")
		if x.cfg.checkpointStore != nil {
			if serr := x.cfg.checkpointStore.SaveCheckpoint(ctx, rec); serr != nil {
				slog.Default().Warn("graph: best-effort checkpoint save failed", "run_id", cp.RunID, "error", serr)
			}
		}
		return err
	default:
		return x.emitRunEvent(ctx, emit, cp.RunID, event.KindRunPaused, "")
	}
}

// afterStep applies the §4.2 post-step ordering: optional prune-before-
// compaction, compaction evaluation (consulting the hook), then prune if
// not already applied.
func (x *Executor) afterStep(ctx context.Context, emit EventSink, rs *recordingSink, state State, node string) {
	if x.cfg.costTracker != nil {
		x.recordStepCost(rs, node)
	}

	if x.cfg.pruneBeforeCompaction {
		x.applyPrune(rs)
	}

	sessionID := state.GetString(SessionIDKey)
	if sessionID == "" {
		sessionID = "unknown"
	}

	messageCount := x.messageCount(ctx, sessionID, rs)
	tokenTotal := 0
	if x.cfg.compactionPolicy.RequiresTokenUsage() {
		tokenTotal = latestStepUsage(rs.history, sessionID)
	}

	if x.cfg.compactionPolicy.ShouldCompactWithUsage(messageCount, tokenTotal) {
		hookCtx := compaction.Context{
			MessageCount:  messageCount,
			TokenCount:    tokenTotal,
			ContextWindow: x.cfg.compactionPolicy.ContextWindow,
			ThresholdRatio: x.cfg.compactionPolicy.TokenRatio,
			Reason:        "threshold",
		}
		var result compaction.Result
		var perform bool
		if x.cfg.compactionHook != nil {
			result, perform = x.cfg.compactionHook.BeforeCompaction(hookCtx)
		}
		if perform {
			_ = emit.Emit(ctx, event.Event{
				Kind: event.KindSessionCompacted, Summary: result.Summary,
				TruncatedBefore: result.TruncatedBefore, SessionID: sessionID,
			})
			x.cfg.compactionHook.AfterCompaction(result)
		} else {
			_ = emit.Emit(ctx, event.Event{
				Kind: event.KindSessionCompactionRequest, MessageCount: messageCount,
				TokenCount: tokenTotal, ContextWindow: x.cfg.compactionPolicy.ContextWindow,
				ThresholdRatio: x.cfg.compactionPolicy.TokenRatio, SessionID: sessionID,
			})
		}
	}

	if !x.cfg.pruneBeforeCompaction {
		x.applyPrune(rs)
	}
}

// messageCount resolves the current count per spec §4.2: from a loaded
// snapshot if a snapshot store is configured and has one, else the event
// history length.
func (x *Executor) messageCount(ctx context.Context, sessionID string, rs *recordingSink) int {
	if x.cfg.snapshotStore != nil {
		if snap, err := x.cfg.snapshotStore.LoadSnapshot(ctx, sessionID); err == nil {
			return len(snap.Messages)
		}
	}
	return len(rs.history)
}

// recordStepCost prices every StepFinish event sequenced since the last
// call against the configured cost tracker, attributing each to node.
func (x *Executor) recordStepCost(rs *recordingSink, node string) {
	for _, rec := range rs.history {
		if rec.Meta.Seq <= rs.pricedSeq || rec.Event.Kind != event.KindStepFinish {
			continue
		}
		_ = x.cfg.costTracker.RecordLLMCall(x.cfg.costModel, rec.Event.Usage.Input, rec.Event.Usage.Output, node)
	}
	if n := len(rs.history); n > 0 {
		rs.pricedSeq = rs.history[n-1].Meta.Seq
	}
}

// applyPrune retains rs's history to the configured prune policy in
// place.
func (x *Executor) applyPrune(rs *recordingSink) {
	if !x.cfg.prune.Enabled {
		return
	}
	rs.history, _ = x.cfg.prune.Apply(rs.history)
}

// latestStepUsage scans history in reverse for the most recent StepFinish
// event matching sessionID, returning its total token usage, or 0 if none
// is found (spec §4.2 "scan history for the most recent StepFinish
// matching the session id and sum its usage").
func latestStepUsage(history []event.Record, sessionID string) int {
	for i := len(history) - 1; i >= 0; i-- {
		ev := history[i].Event
		if ev.Kind == event.KindStepFinish && ev.SessionID == sessionID {
			return ev.Usage.Total()
		}
	}
	return 0
}

// emitRunEvent emits a run-lifecycle event on emit, wrapping a write
// failure as an ExecutionError per spec §7.
func (x *Executor) emitRunEvent(ctx context.Context, emit EventSink, runID string, kind event.Kind, reason string) error {
	if emit == nil {
		return nil
	}
	if err := emit.Emit(ctx, event.Event{Kind: kind, RunID: runID, Reason: reason}); err != nil {
		return NewExecutionError("event_sink:*", err.Error(), err)
	}
	return nil
}

// recordingSink is the executor-installed wrapper that sequences,
// archives and forwards events (spec §4.2 "RecordingSink"). It is
// installed whenever the executor config requires history, a record
// sink, pruning, token-aware compaction, or cost tracking. pricedSeq is
// the highest seq recordStepCost has already looked at.
type recordingSink struct {
	seq        *event.Sequencer
	history    []event.Record
	recordSink EventRecordSink
	user       EventSink
	pricedSeq  uint64
}

// Emit implements EventSink: sequence, archive, forward to the record
// sink, forward the plain event to the user sink, in that order (spec
// §4.2 steps a-d).
func (r *recordingSink) Emit(ctx context.Context, ev event.Event) error {
	rec := r.seq.Next(ev)
	r.history = append(r.history, rec)
	if r.recordSink != nil {
		if err := r.recordSink.EmitRecord(ctx, rec); err != nil {
			return err
		}
	}
	if r.user != nil {
		if err := r.user.Emit(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// installSink builds the per-run event sink. When no history/record
// sink/prune/compaction/cost tracking requires sequencing, the user's plain sink (or a
// Null sink) is used directly — no recordingSink, no history.
func (x *Executor) installSink() (EventSink, *recordingSink) {
	if !x.cfg.requiresRecording() {
		if x.cfg.sink != nil {
			return x.cfg.sink, nil
		}
		return sink.Null{}, nil
	}
	rs := &recordingSink{seq: event.NewSequencer(), recordSink: x.cfg.eventRecordSink, user: x.cfg.sink}
	return rs, rs
}

func toCheckpointRecord(cp Checkpoint) store.CheckpointRecord {
	pending := make([]store.PendingInterrupt, len(cp.PendingInterrupts))
	for i, p := range cp.PendingInterrupts {
		pending[i] = store.PendingInterrupt{ID: p.ID, Node: p.Node, Value: p.Value}
	}
	return store.CheckpointRecord{
		RunID: cp.RunID, CheckpointID: cp.CheckpointID, CreatedAt: cp.CreatedAt,
		State: cp.State.values, NextNode: cp.NextNode, Iterations: cp.Iterations,
		PendingInterrupts: pending, ResumeValues: cp.ResumeValues,
	}
}

func fromCheckpointRecord(rec store.CheckpointRecord) Checkpoint {
	pending := make([]Interrupt, len(rec.PendingInterrupts))
	for i, p := range rec.PendingInterrupts {
		pending[i] = Interrupt{ID: p.ID, Node: p.Node, Value: p.Value}
	}
	return Checkpoint{
		RunID: rec.RunID, CheckpointID: rec.CheckpointID, CreatedAt: rec.CreatedAt,
		State: StateOf(rec.State), NextNode: rec.NextNode, Iterations: rec.Iterations,
		PendingInterrupts: pending, ResumeValues: rec.ResumeValues,
	}
}

func copyResumeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

// newRunID and newCheckpointID mint time-sortable ids (spec §9 "time-
// sortable ids" design note) so a run directory's checkpoint filenames
// sort in creation order without a separate index file.
func newRunID() string        { return newV7ID() }
func newCheckpointID() string { return newV7ID() }

func newV7ID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }
