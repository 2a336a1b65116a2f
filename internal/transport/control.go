package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/northfall-xr/headsetcore/internal/protocol"
)

// writeTimeout bounds how long a single Control.Send blocks on a wedged
// peer before giving up, matching the bounded-suspension-point discipline
// applied to every other blocking call in this core.
const writeTimeout = 2 * time.Second

// Control is the reliable, newline-delimited JSON control socket. It wraps
// a plain net.Conn the same way client/transport.go wraps a
// webtransport.Stream with a ctrlMu-guarded writer and a bufio.Scanner
// reader — minus the WebTransport session, since the control socket here is
// independently bound rather than riding along with the stream socket.
type Control struct {
	conn net.Conn

	writeMu sync.Mutex
	reader  *bufio.Reader
}

// NewControl wraps an already-connected net.Conn as a Control socket.
func NewControl(conn net.Conn) *Control {
	return &Control{conn: conn, reader: bufio.NewReader(conn)}
}

// Send marshals msg as JSON and writes it newline-terminated. Concurrent
// Sends are serialized.
func (c *Control) Send(msg protocol.ControlMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("transport: marshal control message: %w", err)
	}
	data = append(data, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("transport: write control message: %w", err)
	}
	return nil
}

// Recv blocks up to timeout for one newline-delimited JSON message.
func (c *Control) Recv(timeout time.Duration) (protocol.ControlMessage, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return protocol.ControlMessage{}, fmt.Errorf("transport: set read deadline: %w", err)
	}
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return protocol.ControlMessage{}, ErrTimeout
		}
		if errors.Is(err, io.EOF) {
			return protocol.ControlMessage{}, fmt.Errorf("transport: control socket closed by peer: %w", ErrClosed)
		}
		return protocol.ControlMessage{}, fmt.Errorf("transport: read control message: %w", err)
	}

	var msg protocol.ControlMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return protocol.ControlMessage{}, fmt.Errorf("transport: decode control message: %w", err)
	}
	return msg, nil
}

// Close releases the underlying socket.
func (c *Control) Close() error {
	return c.conn.Close()
}

// Split returns independent sender/receiver handles sharing the same
// underlying socket, for handing off to separate workers per §4.5.
func (c *Control) Split() (*ControlSender, *ControlReceiver) {
	return &ControlSender{c: c}, &ControlReceiver{c: c}
}

// ControlSender is the write-only half of a split Control socket.
type ControlSender struct {
	c *Control
}

// Send forwards to the underlying Control socket.
func (s *ControlSender) Send(msg protocol.ControlMessage) error {
	return s.c.Send(msg)
}

// ControlReceiver is the read-only half of a split Control socket.
type ControlReceiver struct {
	c *Control
}

// Recv forwards to the underlying Control socket.
func (r *ControlReceiver) Recv(timeout time.Duration) (protocol.ControlMessage, error) {
	return r.c.Recv(timeout)
}
