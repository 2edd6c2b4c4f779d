package model

import (
	"context"
	"errors"
	"testing"
)

func TestMockChatModelReturnsResponsesInOrderThenRepeatsLast(t *testing.T) {
	m := &MockChatModel{Responses: []ChatOut{{Text: "first"}, {Text: "second"}}}
	ctx := context.Background()

	out, err := m.Chat(ctx, nil, nil)
	if err != nil || out.Text != "first" {
		t.Fatalf("call 1 = %+v, %v", out, err)
	}
	out, err = m.Chat(ctx, nil, nil)
	if err != nil || out.Text != "second" {
		t.Fatalf("call 2 = %+v, %v", out, err)
	}
	out, err = m.Chat(ctx, nil, nil)
	if err != nil || out.Text != "second" {
		t.Fatalf("call 3 should repeat last = %+v, %v", out, err)
	}
	if m.CallCount() != 3 {
		t.Fatalf("CallCount = %d, want 3", m.CallCount())
	}
}

func TestMockChatModelReturnsConfiguredError(t *testing.T) {
	want := errors.New("boom")
	m := &MockChatModel{Err: want}
	_, err := m.Chat(context.Background(), nil, nil)
	if err != want {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestMockChatModelRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &MockChatModel{Responses: []ChatOut{{Text: "x"}}}
	if _, err := m.Chat(ctx, nil, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestMockEmbeddingModel(t *testing.T) {
	m := &MockEmbeddingModel{Vector: []float64{1, 2, 3}}
	out, err := m.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 2 || len(out[0]) != 3 {
		t.Fatalf("out = %+v", out)
	}
}

func TestMockRetrieverTruncatesToTopK(t *testing.T) {
	m := &MockRetriever{Documents: []Document{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	docs, err := m.Retrieve(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %+v", docs)
	}
}
