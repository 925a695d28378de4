package events

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBus_MatchedDataPointsChanged(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	bus.NotifyMatchedDataPointsChanged()

	e := receive(t, sub)
	if e.Kind != MatchedDataPointsChanged {
		t.Fatalf("Kind = %v, want MatchedDataPointsChanged", e.Kind)
	}
	if e.BatchIndex != -1 {
		t.Fatalf("BatchIndex = %d, want -1", e.BatchIndex)
	}
}

func TestBus_RequestBatchInfo(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	bus.RequestBatchInfo(3)

	e := receive(t, sub)
	if e.Kind != BatchInfoRequested || e.BatchIndex != 3 {
		t.Fatalf("event = %+v, want BatchInfoRequested for batch 3", e)
	}
}

func TestBus_SequenceNumbers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	bus.NotifyMatchedDataPointsChanged()
	bus.NotifyMatchedDataPointsChanged()

	first := receive(t, sub)
	second := receive(t, sub)
	if second.ID <= first.ID {
		t.Fatalf("IDs not increasing: %d then %d", first.ID, second.ID)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	if _, open := <-sub; open {
		t.Fatal("channel still open after Unsubscribe")
	}
	// Emitting after unsubscribe must not panic.
	bus.NotifyMatchedDataPointsChanged()
}

func TestBus_DropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	for i := 0; i < 40; i++ {
		bus.RequestBatchInfo(i)
	}
	// The buffer holds 16; the rest were dropped without blocking.
	count := 0
	for {
		select {
		case <-sub:
			count++
			continue
		default:
		}
		break
	}
	if count != 16 {
		t.Fatalf("buffered events = %d, want 16", count)
	}
}
