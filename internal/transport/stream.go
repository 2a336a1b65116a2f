package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/northfall-xr/headsetcore/internal/protocol"
)

// quicALPN is the ALPN token both sides of the stream socket negotiate.
// Not meaningful beyond matching on both ends.
const quicALPN = "headsetcore-stream/1"

// StreamListener is the pre-bound, not-yet-associated stream socket: bound
// on its negotiated port during Handshake step 7, before the host is known
// to have accepted the handshake at all (§4.3 steps 7-9).
type StreamListener struct {
	tr         *quic.Transport
	listener   *quic.Listener
	packetSize int
}

// BindStream opens a UDP socket on port (0 = OS-assigned) and starts a QUIC
// listener on it, using the teacher's own LAN-trust posture (self-signed
// cert, no CA — transport.go's InsecureSkipVerify, mirrored here on the
// server side of the TLS handshake since QUIC requires TLS even for a
// private LAN link).
func BindStream(port int, sendBufferBytes, recvBufferBytes, packetSize int) (*StreamListener, error) {
	udpConn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("transport: bind stream socket: %w", err)
	}
	if sendBufferBytes > 0 {
		_ = udpConn.SetWriteBuffer(sendBufferBytes)
	}
	if recvBufferBytes > 0 {
		_ = udpConn.SetReadBuffer(recvBufferBytes)
	}

	cert, err := selfSignedCert()
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("transport: generate stream socket cert: %w", err)
	}

	tr := &quic.Transport{Conn: udpConn}
	listener, err := tr.Listen(&tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{quicALPN},
	}, &quic.Config{
		EnableDatagrams: true,
	})
	if err != nil {
		udpConn.Close()
		return nil, fmt.Errorf("transport: listen stream socket: %w", err)
	}

	return &StreamListener{tr: tr, listener: listener, packetSize: packetSize}, nil
}

// Port reports the bound UDP port, sent to the host as part of handshake
// negotiation context if the wire protocol calls for it.
func (l *StreamListener) Port() int {
	return l.tr.Conn.LocalAddr().(*net.UDPAddr).Port
}

// AcceptFromHost waits up to timeout for the host to open the QUIC
// connection it was told about via StreamReady (§4.3 step 9). Once this
// returns successfully the Connection Session is committed: every step
// from here on is infallible by construction.
func (l *StreamListener) AcceptFromHost(timeout time.Duration) (*Stream, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	qconn, err := l.listener.Accept(ctx)
	if err != nil {
		return nil, fmt.Errorf("transport: accept stream socket: %w", err)
	}
	return newStream(qconn), nil
}

// Close releases the listener and its underlying UDP socket.
func (l *StreamListener) Close() error {
	err := l.listener.Close()
	if cerr := l.tr.Conn.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Sender is an outbound handle for one substream, e.g. tracking or
// statistics data the embedder pushes without this core itself running a
// dedicated send worker for it.
type Sender struct {
	conn quic.Connection
	id   protocol.SubstreamID

	mu  sync.Mutex
	seq uint16
}

// Send marshals payload with the substream header and sends it as one QUIC
// datagram.
func (s *Sender) Send(payload []byte) error {
	s.mu.Lock()
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	raw := protocol.MarshalDatagram(s.id, seq, payload, nil)
	if err := s.conn.SendDatagram(raw); err != nil {
		return fmt.Errorf("transport: send %s datagram: %w", s.id, err)
	}
	return nil
}

// Receiver is an inbound handle for one substream, backed by a bounded
// drop-oldest backlog fed by the stream socket's single pump loop.
type Receiver struct {
	id      protocol.SubstreamID
	backlog *backlog
}

// Recv waits up to timeout for the next queued packet on this substream.
func (r *Receiver) Recv(timeout time.Duration) (Packet, error) {
	return r.backlog.pop(context.Background(), timeout)
}

// Stream is the associated, data-flowing stream socket, live from
// AcceptFromHost onward for the rest of the Connection Session.
type Stream struct {
	conn quic.Connection

	mu          sync.Mutex
	receivers   map[protocol.SubstreamID]*Receiver
	lastSeqSeen map[protocol.SubstreamID]uint16
}

func newStream(conn quic.Connection) *Stream {
	return &Stream{
		conn:        conn,
		receivers:   make(map[protocol.SubstreamID]*Receiver),
		lastSeqSeen: make(map[protocol.SubstreamID]uint16),
	}
}

// Subscribe registers id as an inbound substream and returns its Receiver.
// Must be called before the stream-pump worker starts.
func (s *Stream) Subscribe(id protocol.SubstreamID) *Receiver {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Receiver{id: id, backlog: newBacklog(protocol.MaxUnreadPackets)}
	s.receivers[id] = r
	return r
}

// RequestSender returns an outbound handle for id.
func (s *Stream) RequestSender(id protocol.SubstreamID) *Sender {
	return &Sender{conn: s.conn, id: id}
}

// Pump performs one receive step: reads a single datagram (blocking up to
// timeout), dispatches it to the subscribed substream's backlog, and
// returns. The caller (the stream-pump worker) loops this.
func (s *Stream) Pump(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	raw, err := s.conn.ReceiveDatagram(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ErrTimeout
		}
		return fmt.Errorf("transport: receive datagram: %w", err)
	}

	id, seq, payload, err := protocol.ParseDatagram(raw)
	if err != nil {
		return nil // malformed datagram, drop silently and keep pumping
	}

	s.mu.Lock()
	r, ok := s.receivers[id]
	lost := false
	if ok {
		if last, have := s.lastSeqSeen[id]; have && seq != last+1 {
			lost = true
		}
		s.lastSeqSeen[id] = seq
	}
	s.mu.Unlock()

	if !ok {
		return nil // no subscriber for this substream, drop
	}
	payloadCopy := append([]byte(nil), payload...)
	r.backlog.push(Packet{Seq: seq, Payload: payloadCopy, Lost: lost})
	return nil
}

// Close tears down the QUIC connection.
func (s *Stream) Close() error {
	return s.conn.CloseWithError(0, "session ended")
}
