package core

import (
	"context"
	"math/rand"
	"time"
)

// retryBackoff is a bounded, jittered exponential backoff used by the
// microphone worker between capture-device retries.
//
// §9 flags the original's unbounded busy-loop retry as a defect rather than
// intentional behaviour. This replaces it with the usual capped/jittered
// exponential shape; no pack repo imports a backoff library as a direct
// dependency of its own code (cenkalti/backoff/v5 only shows up
// transitively, pulled in by an unrelated SDK), so this is a few lines of
// stdlib time/math/rand rather than an import.
type retryBackoff struct {
	attempt int
}

const (
	backoffBase = 200 * time.Millisecond
	backoffCap  = 5 * time.Second
)

// Sleep waits for the next backoff interval, or until ctx is cancelled,
// then advances the attempt counter.
func (b *retryBackoff) Sleep(ctx context.Context) {
	d := backoffBase << uint(min(b.attempt, 5))
	if d > backoffCap {
		d = backoffCap
	}
	wait := d/2 + time.Duration(rand.Int63n(int64(d)/2+1))
	b.attempt++

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// reset zeroes the attempt counter after a successful run, so a transient
// failure doesn't leave the next one waiting longer than necessary.
func (b *retryBackoff) reset() { b.attempt = 0 }
