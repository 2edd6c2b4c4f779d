package sink

import (
	"context"
	"sync"

	"github.com/wrenlabs/agentgraph/graph/event"
)

// Buffered accumulates events in memory instead of forwarding them
// immediately, then flushes them to an inner sink in one batch. Useful
// for batching writes to a slower backend (teacher's emit.BufferedEmitter
// pattern).
type Buffered struct {
	mu       sync.Mutex
	inner    Emitter
	buffer   []event.Event
	capacity int
}

// Emitter is the minimal interface Buffered flushes into; graph.EventSink
// satisfies it structurally.
type Emitter interface {
	Emit(ctx context.Context, ev event.Event) error
}

// NewBuffered returns a Buffered sink that automatically flushes once it
// holds capacity events. capacity <= 0 disables automatic flushing;
// callers must call Flush explicitly.
func NewBuffered(inner Emitter, capacity int) *Buffered {
	return &Buffered{inner: inner, capacity: capacity}
}

// Emit implements graph.EventSink, buffering ev and flushing
// automatically once capacity is reached.
func (b *Buffered) Emit(ctx context.Context, ev event.Event) error {
	b.mu.Lock()
	b.buffer = append(b.buffer, ev)
	shouldFlush := b.capacity > 0 && len(b.buffer) >= b.capacity
	b.mu.Unlock()

	if shouldFlush {
		return b.Flush(ctx)
	}
	return nil
}

// Flush forwards every buffered event to the inner sink in order and
// clears the buffer, even if an error occurs partway through.
func (b *Buffered) Flush(ctx context.Context) error {
	b.mu.Lock()
	pending := b.buffer
	b.buffer = nil
	b.mu.Unlock()

	for _, ev := range pending {
		if err := b.inner.Emit(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Len reports how many events are currently buffered, unflushed.
func (b *Buffered) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}
