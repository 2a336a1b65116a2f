package discovery

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/northfall-xr/headsetcore/internal/transport"
)

// Listener is the client's passive TCP side of discovery: bound once before
// the broadcast/accept retry loop begins, so its ephemeral port can be
// advertised in every beacon.
type Listener struct {
	ln *net.TCPListener
}

// Listen binds an ephemeral TCP port for inbound control-socket connections.
func Listen() (*Listener, error) {
	ln, err := net.ListenTCP("tcp4", &net.TCPAddr{Port: 0})
	if err != nil {
		return nil, fmt.Errorf("discovery: bind control listener: %w", err)
	}
	return &Listener{ln: ln}, nil
}

// Port reports the bound TCP port, for the Announcer's beacon payload.
func (l *Listener) Port() int {
	return l.ln.Addr().(*net.TCPAddr).Port
}

// Accept waits up to timeout for a host to connect, wrapping the result as
// a Control socket. A timeout is reported via transport.ErrTimeout so the
// caller's retry loop can distinguish it from a genuine listener failure.
func (l *Listener) Accept(timeout time.Duration) (*transport.Control, string, error) {
	if err := l.ln.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, "", fmt.Errorf("discovery: set accept deadline: %w", err)
	}
	conn, err := l.ln.Accept()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, "", transport.ErrTimeout
		}
		return nil, "", fmt.Errorf("discovery: accept: %w", err)
	}
	hostAddr, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
	return transport.NewControl(conn), hostAddr, nil
}

// Close releases the listener.
func (l *Listener) Close() error {
	return l.ln.Close()
}
