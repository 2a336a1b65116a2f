// Package discovery implements the client-initiated, host-dials-back LAN
// discovery scheme: the client broadcasts a UDP beacon advertising where it
// is listening, and a matching host connects in to that listener. Staying
// passive on the TCP side keeps the client NAT-friendly (§4.2).
//
// No pack repo does UDP broadcast discovery directly (the teacher dials a
// known address), so the broadcast/listen socket plumbing here is built on
// stdlib net; the retry-loop shape is grounded on the original connection
// pipeline's discovery loop and the accept-with-deadline pattern mirrors
// client/transport.go's connectTimeout-bounded dial.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"syscall"

	"github.com/northfall-xr/headsetcore/internal/protocol"
)

// beaconPort is the fixed UDP port hosts listen on for discovery beacons.
const beaconPort = 9943

type beacon struct {
	ProtocolID uint64 `json:"protocol_id"`
	Hostname   string `json:"hostname"`
	ControlPort int   `json:"control_port"`
}

// Announcer broadcasts discovery beacons on the local subnet.
type Announcer struct {
	conn     *net.UDPConn
	broadcast *net.UDPAddr
	payload  []byte
}

// NewAnnouncer prepares an Announcer advertising hostname and the TCP port
// the client's control-socket listener is bound to.
//
// SO_BROADCAST isn't set by a plain net.ListenUDP socket, so sending to
// net.IPv4bcast would otherwise fail with a permission error; the
// ListenConfig.Control hook sets it on the raw fd before the socket is
// used.
func NewAnnouncer(hostname string, controlPort int) (*Announcer, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
	pc, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("discovery: open broadcast socket: %w", err)
	}
	conn := pc.(*net.UDPConn)
	payload, err := json.Marshal(beacon{
		ProtocolID:  protocol.ProtocolID,
		Hostname:    hostname,
		ControlPort: controlPort,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("discovery: encode beacon: %w", err)
	}
	return &Announcer{
		conn:      conn,
		broadcast: &net.UDPAddr{IP: net.IPv4bcast, Port: beaconPort},
		payload:   payload,
	}, nil
}

// Broadcast sends one beacon datagram. A failure here means the local
// network stack has no usable interface, which the caller treats as the
// "cannot connect to the internet" recoverable condition (§4.2).
func (a *Announcer) Broadcast() error {
	_, err := a.conn.WriteToUDP(a.payload, a.broadcast)
	if err != nil {
		return fmt.Errorf("discovery: broadcast: %w", err)
	}
	return nil
}

// Close releases the broadcast socket.
func (a *Announcer) Close() error {
	return a.conn.Close()
}
