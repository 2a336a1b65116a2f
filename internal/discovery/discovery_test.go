package discovery

import (
	"testing"
	"time"

	"github.com/northfall-xr/headsetcore/internal/transport"
)

func TestListenerAcceptTimesOutWithNoConnection(t *testing.T) {
	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	_, _, err = ln.Accept(50 * time.Millisecond)
	if err != transport.ErrTimeout {
		t.Errorf("Accept() err = %v, want transport.ErrTimeout", err)
	}
}

func TestAnnouncerBroadcastDoesNotError(t *testing.T) {
	a, err := NewAnnouncer("test-headset", 1234)
	if err != nil {
		t.Fatalf("NewAnnouncer: %v", err)
	}
	defer a.Close()

	if err := a.Broadcast(); err != nil {
		t.Errorf("Broadcast: %v", err)
	}
}
