package event

import (
	"testing"
	"time"
)

func TestBus_EmitAndSubscribe(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Emit("project:create", "p1", "data")

	select {
	case e := <-ch:
		if e.Name != "project:create" {
			t.Errorf("Name = %q, want %q", e.Name, "project:create")
		}
		if e.ProjectID != "p1" {
			t.Errorf("ProjectID = %q, want %q", e.ProjectID, "p1")
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestBus_multipleSubscribers(t *testing.T) {
	bus := NewBus()
	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Emit("asset:create", "p1", nil)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case e := <-ch:
			if e.Name != "asset:create" {
				t.Errorf("Name = %q, want %q", e.Name, "asset:create")
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBus_cancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	cancel()

	// The channel is closed; emitting afterwards must not panic.
	bus.Emit("project:delete", "p1", nil)

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
}

func TestBus_slowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	// Nobody reads; emits beyond the buffer must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Emit("field:update", "p1", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Errorf("received %d events, want %d buffered", received, subscriberBuffer)
	}
}

func TestBus_emitWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Emit("collection:create", "p1", nil)
}
