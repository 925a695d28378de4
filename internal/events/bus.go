// Package events carries the comparison lifecycle notifications exchanged
// between the dataset pipeline, the summary composer, and hosts: a
// matched-data-points-changed signal fired once per recomputation, and
// fire-and-forget batch-info requests raised from rendered batch names.
package events

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Kind discriminates event payloads.
type Kind int

const (
	// MatchedDataPointsChanged fires after the dataset pipeline rebuilt
	// the comparison snapshot; subscribers re-read state wholesale, so it
	// carries no payload beyond the trigger itself.
	MatchedDataPointsChanged Kind = iota
	// BatchInfoRequested reports user interaction with a rendered batch
	// name. BatchIndex identifies the batch; no response flows back.
	BatchInfoRequested
)

// Event is one notification on the bus. ID is a monotonically increasing
// sequence number assigned at emit time.
type Event struct {
	ID         uint64
	Kind       Kind
	BatchIndex int
	Timestamp  time.Time
}

// Bus dispatches events to subscriber channels. Sends never block: a
// subscriber that falls behind drops events rather than stalling the
// pipeline.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
	sequence    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a buffered channel receiving all future events.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	if ch == nil {
		return
	}
	target := reflect.ValueOf(ch).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if reflect.ValueOf(sub).Pointer() == target {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			break
		}
	}
}

// Emit dispatches an event to all subscribers. Safe from any goroutine.
func (b *Bus) Emit(event Event) {
	event.ID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	b.mu.RLock()
	for _, sub := range b.subscribers {
		select {
		case sub <- event:
		default: // Drop if channel full
		}
	}
	b.mu.RUnlock()
}

// NotifyMatchedDataPointsChanged signals that the snapshot was rebuilt.
func (b *Bus) NotifyMatchedDataPointsChanged() {
	b.Emit(Event{Kind: MatchedDataPointsChanged, BatchIndex: -1})
}

// RequestBatchInfo raises a batch-info request for the given batch index.
func (b *Bus) RequestBatchInfo(batchIndex int) {
	b.Emit(Event{Kind: BatchInfoRequested, BatchIndex: batchIndex})
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil
}
