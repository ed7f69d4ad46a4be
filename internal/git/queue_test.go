package git

import (
	"sync"
	"testing"
)

func TestQueue_runsSerially(t *testing.T) {
	q := newQueue()
	defer q.close()

	var mu sync.Mutex
	var order []int
	running := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.do(func() {
				mu.Lock()
				running++
				if running > 1 {
					t.Error("two tasks ran at once")
				}
				order = append(order, i)
				running--
				mu.Unlock()
			})
			if err != nil {
				t.Errorf("do() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if len(order) != 20 {
		t.Fatalf("ran %d tasks, want 20", len(order))
	}
}

func TestQueue_doBlocksUntilDone(t *testing.T) {
	q := newQueue()
	defer q.close()

	ran := false
	if err := q.do(func() { ran = true }); err != nil {
		t.Fatalf("do() error = %v", err)
	}
	if !ran {
		t.Error("do() returned before the task ran")
	}
}

func TestQueue_closedRejectsWork(t *testing.T) {
	q := newQueue()
	q.close()

	err := q.do(func() { t.Error("task ran on closed queue") })
	if err != ErrQueueClosed {
		t.Errorf("do() error = %v, want ErrQueueClosed", err)
	}
}

func TestQueue_closeTwice(t *testing.T) {
	q := newQueue()
	q.close()
	q.close()
}
