package hud

import "testing"

func TestQueueDrainReturnsInOrder(t *testing.T) {
	q := NewQueue()
	q.Push(UpdateHudMessage{Text: "first"})
	q.Push(StreamingStarted{RefreshRateHint: 90})
	q.Push(StreamingStopped{})

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	if msg, ok := got[0].(UpdateHudMessage); !ok || msg.Text != "first" {
		t.Errorf("got[0] = %+v, want UpdateHudMessage{Text: \"first\"}", got[0])
	}
	if _, ok := got[2].(StreamingStopped); !ok {
		t.Errorf("got[2] = %+v, want StreamingStopped", got[2])
	}
}

func TestQueueDrainEmptyReturnsNil(t *testing.T) {
	q := NewQueue()
	if got := q.Drain(); got != nil {
		t.Errorf("Drain() on empty queue = %v, want nil", got)
	}
}

func TestQueuePushNeverBlocks(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Push(UpdateHudMessage{Text: "spam"})
		}
		close(done)
	}()
	<-done
	if got := q.Drain(); len(got) != 1000 {
		t.Errorf("len(got) = %d, want 1000", len(got))
	}
}
