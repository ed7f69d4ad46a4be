package git

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned for work submitted after Close.
var ErrQueueClosed = errors.New("git: command queue closed")

// queue runs submitted functions one at a time, in submission order. Git is
// not reentrant-safe for concurrent invocations against the same working
// directory, so every command of a Client goes through its queue.
//
// The queue is owned by a Client instance, not a package singleton, so tests
// and multi-engine setups get isolated queues.
type queue struct {
	tasks chan func()

	mu     sync.Mutex
	closed bool
}

func newQueue() *queue {
	q := &queue{tasks: make(chan func())}
	go q.loop()
	return q
}

func (q *queue) loop() {
	for fn := range q.tasks {
		fn()
	}
}

// do blocks until fn has run on the worker goroutine.
func (q *queue) do(fn func()) error {
	done := make(chan struct{})

	// The lock is held across the send so close cannot sneak in between
	// the closed check and the channel send.
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.tasks <- func() {
		defer close(done)
		fn()
	}
	q.mu.Unlock()

	<-done
	return nil
}

// close stops the worker after in-flight work finishes.
func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}
