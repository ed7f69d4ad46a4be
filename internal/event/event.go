// Package event is a small in-process pub/sub bus. Services emit one event
// after every successful mutation; a slow subscriber loses events instead
// of stalling the engine.
package event

import "sync"

// Event names follow "entity:verb", e.g. "project:create".
type Event struct {
	Name      string
	ProjectID string
	Data      any
}

// subscriberBuffer bounds how far a subscriber may fall behind before
// events are dropped for it.
const subscriberBuffer = 64

// Bus fans events out to all subscribers. Construct with NewBus.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a channel receiving every emitted event and a cancel
// function that unsubscribes and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Emit delivers the event to every subscriber without blocking. Subscribers
// with a full buffer miss this event.
func (b *Bus) Emit(name, projectID string, data any) {
	e := Event{Name: name, ProjectID: projectID, Data: data}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
