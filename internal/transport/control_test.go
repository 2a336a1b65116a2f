package transport

import (
	"net"
	"testing"
	"time"

	"github.com/northfall-xr/headsetcore/internal/protocol"
)

func TestControlSendRecvRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	ca := NewControl(a)
	cb := NewControl(b)
	defer ca.Close()
	defer cb.Close()

	done := make(chan error, 1)
	go func() {
		done <- ca.Send(protocol.ControlMessage{Type: protocol.TypeKeepAlive})
	}()

	msg, err := cb.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if msg.Type != protocol.TypeKeepAlive {
		t.Errorf("msg.Type = %q, want %q", msg.Type, protocol.TypeKeepAlive)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestControlRecvTimesOut(t *testing.T) {
	a, b := net.Pipe()
	cb := NewControl(b)
	defer a.Close()
	defer cb.Close()

	_, err := cb.Recv(20 * time.Millisecond)
	if err != ErrTimeout {
		t.Errorf("Recv() err = %v, want ErrTimeout", err)
	}
}

func TestControlSplitSharesUnderlyingSocket(t *testing.T) {
	a, b := net.Pipe()
	ca := NewControl(a)
	cb := NewControl(b)
	defer ca.Close()
	defer cb.Close()

	sender, _ := ca.Split()
	_, receiver := cb.Split()

	go sender.Send(protocol.ControlMessage{Type: protocol.TypeBattery, Gauge: 42})

	msg, err := receiver.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if msg.Gauge != 42 {
		t.Errorf("Gauge = %d, want 42", msg.Gauge)
	}
}
