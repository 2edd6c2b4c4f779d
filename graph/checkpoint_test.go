package graph

import (
	"encoding/json"
	"testing"
)

func TestCommandFromJSONEnvelope(t *testing.T) {
	cmd, err := CommandFromJSON(json.RawMessage(`{"interrupt_id":"confirm","value":"yes"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cmd.HasValue || cmd.InterruptID != "confirm" || cmd.Value != "yes" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestCommandFromJSONBareMap(t *testing.T) {
	cmd, err := CommandFromJSON(json.RawMessage(`{"a":1,"b":2}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmd.HasValue {
		t.Fatal("bare map should not set HasValue")
	}
	if len(cmd.Values) != 2 {
		t.Fatalf("expected 2 values, got %+v", cmd.Values)
	}
	if v, _ := cmd.Values["a"].(float64); v != 1 {
		t.Fatalf("a = %v, want 1", cmd.Values["a"])
	}
}

func TestCommandFromJSONScalar(t *testing.T) {
	cmd, err := CommandFromJSON(json.RawMessage(`42`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cmd.HasValue || cmd.InterruptID != "" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if v, _ := cmd.Value.(float64); v != 42 {
		t.Fatalf("value = %v, want 42", cmd.Value)
	}
}

func TestCommandFromJSONEmpty(t *testing.T) {
	if _, err := CommandFromJSON(nil); err == nil {
		t.Fatal("expected error decoding empty payload")
	}
}

func TestMergeResumeValuesNoPending(t *testing.T) {
	cp := Checkpoint{}
	if _, err := mergeResumeValues(cp, NewCommand("x")); err == nil {
		t.Fatal("expected error with no pending interrupts")
	}
}

func TestMergeResumeValuesSingleMismatchedID(t *testing.T) {
	cp := Checkpoint{PendingInterrupts: []Interrupt{{ID: "confirm", Node: "ask"}}}
	if _, err := mergeResumeValues(cp, NewCommandForInterrupt("other", "x")); err == nil {
		t.Fatal("expected error on mismatched interrupt id")
	}
}

func TestMergeResumeValuesSingleStoresUnderIDAndNode(t *testing.T) {
	cp := Checkpoint{PendingInterrupts: []Interrupt{{ID: "confirm", Node: "ask"}}}
	merged, err := mergeResumeValues(cp, NewCommand("yes"))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged["confirm"] != "yes" || merged["ask"] != "yes" {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestMergeResumeValuesSingleRejectsMultiCommand(t *testing.T) {
	cp := Checkpoint{PendingInterrupts: []Interrupt{{ID: "confirm", Node: "ask"}}}
	if _, err := mergeResumeValues(cp, NewMultiCommand(map[string]any{"confirm": "yes"})); err == nil {
		t.Fatal("expected error resuming single-pending checkpoint with a multi-value command")
	}
}

func TestMergeResumeValuesMultiRequiresEveryID(t *testing.T) {
	cp := Checkpoint{PendingInterrupts: []Interrupt{{ID: "a", Node: "ask2"}, {ID: "b", Node: "ask2"}}}
	if _, err := mergeResumeValues(cp, NewCommand("x")); err == nil {
		t.Fatal("expected error resuming multi-pending checkpoint with a scalar command")
	}
	if _, err := mergeResumeValues(cp, NewMultiCommand(map[string]any{"a": 1})); err == nil {
		t.Fatal("expected error with an incomplete map")
	}
	merged, err := mergeResumeValues(cp, NewMultiCommand(map[string]any{"a": 1, "b": 2}))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged["a"] != 1 || merged["b"] != 2 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestMergeResumeValuesPreservesPriorResumeValues(t *testing.T) {
	cp := Checkpoint{
		PendingInterrupts: []Interrupt{{ID: "b", Node: "ask2"}},
		ResumeValues:      map[string]any{"a": 1},
	}
	merged, err := mergeResumeValues(cp, NewCommand(2))
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged["a"] != 1 {
		t.Fatalf("prior resume value lost: %+v", merged)
	}
	if merged["b"] != 2 || merged["ask2"] != 2 {
		t.Fatalf("new resume value missing: %+v", merged)
	}
}
