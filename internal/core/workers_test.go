package core

import (
	"context"
	"testing"
	"time"

	"github.com/northfall-xr/headsetcore/internal/protocol"
)

func TestNextVideoStateIDRClearsLatch(t *testing.T) {
	corrupted, shouldPush, shouldIDR := nextVideoState(true, protocol.VideoHeader{IsIDR: true}, false, true)
	if corrupted {
		t.Error("corrupted latch should clear on IDR")
	}
	if !shouldPush {
		t.Error("an IDR packet should always be pushed")
	}
	if shouldIDR {
		t.Error("an IDR packet should not itself trigger a new IDR request")
	}
}

func TestNextVideoStateLossSetsLatchAndRequestsIDR(t *testing.T) {
	corrupted, shouldPush, shouldIDR := nextVideoState(false, protocol.VideoHeader{}, true, false)
	if !corrupted {
		t.Error("a lost packet should set the corrupted latch")
	}
	if !shouldIDR {
		t.Error("a lost packet should always request an IDR")
	}
	if !shouldPush {
		t.Error("loss without avoid_video_glitching should still push")
	}
}

func TestNextVideoStateAvoidGlitchingDropsWhileCorrupted(t *testing.T) {
	corrupted, shouldPush, shouldIDR := nextVideoState(true, protocol.VideoHeader{}, false, true)
	if !corrupted {
		t.Error("latch should remain set for a non-IDR packet")
	}
	if shouldPush {
		t.Error("corrupted + avoid_video_glitching should drop the packet")
	}
	if !shouldIDR {
		t.Error("dropping a packet while corrupted should keep requesting an IDR")
	}
}

func TestNextVideoStateNoGlitchingStillPushesWhileCorrupted(t *testing.T) {
	_, shouldPush, _ := nextVideoState(true, protocol.VideoHeader{}, false, false)
	if !shouldPush {
		t.Error("without avoid_video_glitching, packets should still be pushed while corrupted")
	}
}

func TestRetryBackoffGrowsAndCaps(t *testing.T) {
	var b retryBackoff
	ctx := context.Background()

	var last time.Duration
	for i := 0; i < 10; i++ {
		start := time.Now()
		b.Sleep(ctx)
		elapsed := time.Since(start)
		if i > 0 && elapsed < last/2 {
			t.Errorf("iteration %d: backoff shrank unexpectedly (%v after %v)", i, elapsed, last)
		}
		last = elapsed
	}
	if last > backoffCap {
		t.Errorf("backoff exceeded cap: %v > %v", last, backoffCap)
	}
}

func TestRetryBackoffResetRestartsFromBase(t *testing.T) {
	var b retryBackoff
	for i := 0; i < 8; i++ {
		b.Sleep(context.Background())
	}
	b.reset()
	if b.attempt != 0 {
		t.Errorf("attempt = %d after reset, want 0", b.attempt)
	}
}
