// Package transport implements the two sockets a Connection Session uses:
// a reliable newline-JSON control channel (Control) and a multiplexed
// datagram-oriented stream channel (Stream). Every blocking receive reports
// a bounded timeout through the ErrTimeout sentinel rather than an opaque
// error, so callers can tell a transport-transient condition from a
// transport-fatal one without string matching.
//
// Grounded on client/transport.go's ConnectionError-shaped checks
// (originally a Rust enum split into TryAgain/Other; here expressed as
// errors.Is against a sentinel, the shape the teacher itself reaches for
// elsewhere for soft-fail-vs-hard-fail, e.g. app.go's specific-string
// check on "control websocket not connected").
package transport

import "errors"

// ErrTimeout is returned by Recv methods when no data arrived before the
// caller's deadline. It is always transport-transient: the caller should
// simply try again, not tear the session down.
var ErrTimeout = errors.New("transport: timeout")

// ErrClosed is wrapped into the error Control.Recv returns when the peer has
// closed the control socket (end of stream).
var ErrClosed = errors.New("transport: closed")
