package hud

import "sync"

// Queue is an unbounded, mutex-protected FIFO of Events. Push never blocks;
// Drain hands the caller everything queued so far in one shot. This mirrors
// the teacher's wailsrt.EventsEmit call sites, minus the GUI bridge itself.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	notify chan struct{}
}

// NewQueue returns a ready-to-use Queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends event to the queue and wakes one Wait caller, if any.
func (q *Queue) Push(event Event) {
	q.mu.Lock()
	q.items = append(q.items, event)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain removes and returns every event currently queued, oldest first. It
// returns nil (not an empty, non-nil slice) when the queue is empty.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Wait returns a channel that yields a value after Push has been called
// since the last value was taken; several Pushes in between coalesce into
// one value. The channel is never closed. Callers typically loop
// receive-then-Drain.
func (q *Queue) Wait() <-chan struct{} {
	return q.notify
}
