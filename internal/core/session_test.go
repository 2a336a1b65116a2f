package core

import (
	"net"
	"testing"
	"time"

	"github.com/northfall-xr/headsetcore/internal/protocol"
	"github.com/northfall-xr/headsetcore/internal/transport"
)

func TestRunHandshakeRestartingYieldsCleanReturn(t *testing.T) {
	clientConn, hostConn := net.Pipe()
	defer clientConn.Close()
	defer hostConn.Close()

	ctx := NewContext()
	ctrl := transport.NewControl(clientConn)
	host := transport.NewControl(hostConn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// drain connection_accepted
		if _, err := host.Recv(time.Second); err != nil {
			t.Errorf("host recv connection_accepted: %v", err)
			return
		}
		if err := host.Send(protocol.ControlMessage{Type: protocol.TypeStreamConfig}); err != nil {
			t.Errorf("host send stream_config: %v", err)
			return
		}
		if err := host.Send(protocol.ControlMessage{Type: protocol.TypeRestarting}); err != nil {
			t.Errorf("host send restarting: %v", err)
			return
		}
	}()

	committed, err := runHandshake(ctx, Config{}, ctrl, "127.0.0.1")
	<-done
	if err != nil {
		t.Fatalf("runHandshake returned error, want clean nil/nil: %v", err)
	}
	if committed != nil {
		t.Fatal("runHandshake committed a session after Restarting, want nil")
	}
}

func TestRunHandshakeUnexpectedPacketTypeForStreamConfig(t *testing.T) {
	clientConn, hostConn := net.Pipe()
	defer clientConn.Close()
	defer hostConn.Close()

	ctx := NewContext()
	ctrl := transport.NewControl(clientConn)
	host := transport.NewControl(hostConn)

	go func() {
		host.Recv(time.Second)
		host.Send(protocol.ControlMessage{Type: protocol.TypeKeepAlive})
	}()

	_, err := runHandshake(ctx, Config{}, ctrl, "127.0.0.1")
	if err == nil {
		t.Fatal("expected error for unexpected packet type in place of stream_config, got nil")
	}
}

func TestRunHandshakeTimeoutWaitingForStreamConfig(t *testing.T) {
	clientConn, hostConn := net.Pipe()
	defer clientConn.Close()
	defer hostConn.Close()

	ctx := NewContext()
	ctrl := transport.NewControl(clientConn)

	go func() {
		host := transport.NewControl(hostConn)
		host.Recv(time.Second) // drain connection_accepted, then never reply
	}()

	start := time.Now()
	_, err := runHandshake(ctx, Config{}, ctrl, "127.0.0.1")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error waiting for stream_config, got nil")
	}
	if elapsed < protocol.HandshakeActionTimeout {
		t.Errorf("runHandshake returned after %v, want at least %v", elapsed, protocol.HandshakeActionTimeout)
	}
}
