package transport

import (
	"context"
	"testing"
	"time"
)

func TestBacklogDropsOldestWhenFull(t *testing.T) {
	b := newBacklog(2)
	b.push(Packet{Seq: 1})
	b.push(Packet{Seq: 2})
	b.push(Packet{Seq: 3}) // should evict seq 1

	first, err := b.pop(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if first.Seq != 2 {
		t.Errorf("first.Seq = %d, want 2 (oldest should have been dropped)", first.Seq)
	}

	second, err := b.pop(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if second.Seq != 3 {
		t.Errorf("second.Seq = %d, want 3", second.Seq)
	}
}

func TestBacklogPopTimesOutWhenEmpty(t *testing.T) {
	b := newBacklog(4)
	_, err := b.pop(context.Background(), 20*time.Millisecond)
	if err != ErrTimeout {
		t.Errorf("pop() err = %v, want ErrTimeout", err)
	}
}

func TestBacklogFIFOOrderWithinCapacity(t *testing.T) {
	b := newBacklog(4)
	for i := uint16(0); i < 4; i++ {
		b.push(Packet{Seq: i})
	}
	for i := uint16(0); i < 4; i++ {
		p, err := b.pop(context.Background(), time.Second)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if p.Seq != i {
			t.Errorf("pop order: got seq %d, want %d", p.Seq, i)
		}
	}
}
