package graph

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Checkpoint is the serializable state of a suspended run (spec §3, §6):
// enough to resume execution at NextNode with the same State, the
// interrupts still awaiting an answer, and every resume value collected
// so far.
type Checkpoint struct {
	RunID             string
	CheckpointID      string
	CreatedAt         string // RFC-3339
	State             State
	NextNode          string
	PendingInterrupts []Interrupt
	Iterations        int
	ResumeValues      map[string]any
}

// Command is the caller-supplied payload to Resume. Exactly one of Value
// or Values is meaningful, matching the single-vs-multi-pending-interrupt
// resume contract (spec §4.3): Value (with HasValue true) answers a
// checkpoint with exactly one pending interrupt, optionally confirming it
// via InterruptID; Values answers a checkpoint with more than one pending
// interrupt, keyed by interrupt id.
type Command struct {
	InterruptID string
	Value       any
	HasValue    bool
	Values      map[string]any
}

// NewCommand returns a Command carrying a single scalar value, for
// resuming a checkpoint with exactly one pending interrupt.
func NewCommand(value any) Command {
	return Command{Value: value, HasValue: true}
}

// NewCommandForInterrupt returns a Command carrying a single scalar value
// that must match interruptID on a single-pending checkpoint.
func NewCommandForInterrupt(interruptID string, value any) Command {
	return Command{InterruptID: interruptID, Value: value, HasValue: true}
}

// NewMultiCommand returns a Command carrying one value per pending
// interrupt id, for resuming a checkpoint with more than one pending
// interrupt.
func NewMultiCommand(values map[string]any) Command {
	return Command{Values: values}
}

// CommandFromJSON decodes an opaque resume payload into a Command. gjson
// tells an envelope ({"interrupt_id": ..., "value": ...}), a bare
// {interrupt_id: value, ...} map, and a scalar apart without a bespoke
// parser (SPEC_FULL.md domain stack: "navigating the opaque JSON
// command.value / resume_values payloads").
func CommandFromJSON(data json.RawMessage) (Command, error) {
	if len(data) == 0 {
		return Command{}, fmt.Errorf("graph: empty resume command")
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		if v := root.Get("value"); v.Exists() {
			return Command{InterruptID: root.Get("interrupt_id").String(), Value: v.Value(), HasValue: true}, nil
		}
		values := make(map[string]any)
		root.ForEach(func(key, value gjson.Result) bool {
			values[key.String()] = value.Value()
			return true
		})
		return Command{Values: values}, nil
	}
	return Command{Value: root.Value(), HasValue: true}, nil
}

// mergeResumeValues implements the §4.3 resume contract: a single
// pending interrupt accepts a scalar command (optionally confirming its
// interrupt id) and stores the value under both the interrupt id and the
// node name; multiple pending interrupts require a map covering every
// pending id. It returns a new map; cp.ResumeValues itself is untouched.
func mergeResumeValues(cp Checkpoint, cmd Command) (map[string]any, error) {
	merged := make(map[string]any, len(cp.ResumeValues)+len(cp.PendingInterrupts))
	for k, v := range cp.ResumeValues {
		merged[k] = v
	}

	switch len(cp.PendingInterrupts) {
	case 0:
		return nil, &CheckpointError{Message: "checkpoint has no pending interrupts"}
	case 1:
		pending := cp.PendingInterrupts[0]
		if cmd.Values != nil {
			return nil, &CheckpointError{Message: "checkpoint has a single pending interrupt, got a multi-value command"}
		}
		if !cmd.HasValue {
			return nil, &CheckpointError{Message: "missing resume value"}
		}
		if cmd.InterruptID != "" && cmd.InterruptID != pending.ID {
			return nil, &CheckpointError{Message: "interrupt_id does not match pending interrupt"}
		}
		merged[pending.ID] = cmd.Value
		merged[pending.Node] = cmd.Value
	default:
		if cmd.Values == nil {
			return nil, &CheckpointError{Message: "checkpoint has multiple pending interrupts, need a multi-value command"}
		}
		for _, pending := range cp.PendingInterrupts {
			v, ok := cmd.Values[pending.ID]
			if !ok {
				return nil, &CheckpointError{Message: fmt.Sprintf("missing resume value for interrupt_id %q", pending.ID)}
			}
			merged[pending.ID] = v
		}
	}
	return merged, nil
}
