package session

import (
	"errors"
	"testing"

	"github.com/wrenlabs/agentgraph/graph/event"
)

func TestTryTransitionNoOpSamePhase(t *testing.T) {
	p, err := TryTransition(PhaseUserInput, PhaseUserInput)
	if err != nil || p != PhaseUserInput {
		t.Fatalf("got %v, %v", p, err)
	}
}

func TestTryTransitionLegalEdge(t *testing.T) {
	p, err := TryTransition(PhaseUserInput, PhaseModelThinking)
	if err != nil || p != PhaseModelThinking {
		t.Fatalf("got %v, %v", p, err)
	}
}

func TestTryTransitionIllegalEdgeNamesBothStates(t *testing.T) {
	_, err := TryTransition(PhaseUserInput, PhaseCompleted)
	if err == nil {
		t.Fatal("expected error")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.From != PhaseUserInput || te.To != PhaseCompleted {
		t.Fatalf("error = %+v", te)
	}
}

func TestTryTransitionInterruptedFromAnyNonCompleted(t *testing.T) {
	p, err := TryTransition(PhaseToolRunning, PhaseInterrupted)
	if err != nil || p != PhaseInterrupted {
		t.Fatalf("got %v, %v", p, err)
	}
	if _, err := TryTransition(PhaseCompleted, PhaseInterrupted); err == nil {
		t.Fatal("expected Completed -> Interrupted to be illegal")
	}
}

func TestReduceTextDeltaAppendsPartAndAdvances(t *testing.T) {
	s := New("sess-1")
	s.Phase = PhaseModelThinking
	Reduce(s, event.Event{Kind: event.KindTextDelta, Text: "hello"})
	if s.Phase != PhaseAssistantStreaming {
		t.Fatalf("phase = %v, want AssistantStreaming", s.Phase)
	}
	if len(s.PendingParts) != 1 || s.PendingParts[0].Text != "hello" {
		t.Fatalf("parts = %+v", s.PendingParts)
	}
}

func TestReduceToolStartTwoStepTransition(t *testing.T) {
	s := New("sess-1")
	s.Phase = PhaseAssistantStreaming
	Reduce(s, event.Event{Kind: event.KindToolStart, Tool: "search", CallID: "c1"})
	if s.Phase != PhaseToolRunning {
		t.Fatalf("phase = %v, want ToolRunning", s.Phase)
	}
	if len(s.ToolCalls) != 1 || s.ToolCalls[0].Status != ToolCallRunning {
		t.Fatalf("tool calls = %+v", s.ToolCalls)
	}
}

func TestReduceToolResultUpdatesExistingCall(t *testing.T) {
	s := New("sess-1")
	s.Phase = PhaseAssistantStreaming
	Reduce(s, event.Event{Kind: event.KindToolStart, Tool: "search", CallID: "c1"})
	Reduce(s, event.Event{Kind: event.KindToolResult, Tool: "search", CallID: "c1"})
	if s.Phase != PhaseToolResult {
		t.Fatalf("phase = %v, want ToolResult", s.Phase)
	}
	if len(s.ToolCalls) != 1 || s.ToolCalls[0].Status != ToolCallCompleted {
		t.Fatalf("tool calls = %+v", s.ToolCalls)
	}
}

func TestReduceAttachmentAndErrorDoNotChangePhase(t *testing.T) {
	s := New("sess-1")
	s.Phase = PhaseToolRunning
	Reduce(s, event.Event{Kind: event.KindAttachment})
	Reduce(s, event.Event{Kind: event.KindError, Error: "boom"})
	if s.Phase != PhaseToolRunning {
		t.Fatalf("phase changed to %v", s.Phase)
	}
	if len(s.PendingParts) != 2 {
		t.Fatalf("parts = %+v", s.PendingParts)
	}
}

func TestFinalizeMessageOnlyWhenNonEmpty(t *testing.T) {
	s := New("sess-1")
	if msg := s.FinalizeMessage(RoleAssistant); msg != nil {
		t.Fatalf("expected nil for empty pending parts, got %+v", msg)
	}
	Reduce(s, event.Event{Kind: event.KindTextFinal, Text: "done"})
	msg := s.FinalizeMessage(RoleAssistant)
	if msg == nil {
		t.Fatal("expected finalized message")
	}
	if msg.Text() != "done" {
		t.Fatalf("text = %q, want %q", msg.Text(), "done")
	}
	if len(s.PendingParts) != 0 {
		t.Fatalf("pending parts should be drained, got %+v", s.PendingParts)
	}
}
