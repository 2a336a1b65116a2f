package core

import (
	"net"
	"testing"
	"time"

	"github.com/northfall-xr/headsetcore/internal/transport"
)

func TestDisconnectNotifierStartsUninstalled(t *testing.T) {
	ctx := NewContext()
	// FireDisconnect before any notifier is installed must not panic or
	// block — it's a documented no-op.
	ctx.FireDisconnect()
}

func TestInstallAndFireDisconnectNotifier(t *testing.T) {
	ctx := NewContext()
	ch := ctx.InstallDisconnectNotifier()

	ctx.FireDisconnect()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("FireDisconnect did not signal the installed notifier")
	}
}

func TestClearDisconnectNotifierStopsDelivery(t *testing.T) {
	ctx := NewContext()
	ctx.InstallDisconnectNotifier()
	ctx.ClearDisconnectNotifier()

	// No panic, no deadlock: firing with nothing installed is a silent
	// no-op, matching the scoped teardown guard being safe to call
	// unconditionally on every session exit path.
	ctx.FireDisconnect()
}

func TestSetStreamingCancelsStreamingContext(t *testing.T) {
	ctx := NewContext()
	ctx.SetStreaming(true)
	streamCtx := ctx.StreamingContext()

	select {
	case <-streamCtx.Done():
		t.Fatal("streaming context is done immediately after SetStreaming(true)")
	default:
	}

	ctx.SetStreaming(false)

	select {
	case <-streamCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("streaming context was not cancelled by SetStreaming(false)")
	}
}

func TestControlSenderSlotLifecycle(t *testing.T) {
	ctx := NewContext()
	if ctx.ControlSender() != nil {
		t.Fatal("ControlSender() non-nil before any session")
	}
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	sender, _ := transport.NewControl(a).Split()
	ctx.SetControlSender(sender)
	if ctx.ControlSender() == nil {
		t.Fatal("ControlSender() nil after SetControlSender")
	}
	ctx.ClearControlSender()
	if ctx.ControlSender() != nil {
		t.Fatal("ControlSender() non-nil after ClearControlSender")
	}
}
