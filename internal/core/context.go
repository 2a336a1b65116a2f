// Package core implements the client-side connection lifecycle: the
// Lifecycle Supervisor's retry loop, one Connection Session's
// Discovery→Handshake→Streaming phases, and the seven worker goroutines
// that run while streaming.
//
// Grounded on client/app.go's App struct (atomic.Bool flags alongside
// mutex-guarded maps/slots for the same kind of process-wide state) and
// client/audio.go's AudioEngine (atomic.Bool-gated loops, a stopCh
// closed-once-to-broadcast teardown signal — the shape reused here for the
// streaming context cancelled by SetStreaming(false); the disconnect
// notifier itself is a buffered channel that workers send to).
package core

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/northfall-xr/headsetcore/internal/external"
	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/transport"
)

// Context holds every piece of state shared between the Lifecycle
// Supervisor, the active Connection Session, and its workers. Exactly one
// Context exists per running client.
type Context struct {
	alive     atomic.Bool
	resumed   atomic.Bool
	streaming atomic.Bool

	streamMu     sync.Mutex
	streamCtx    context.Context
	streamCancel context.CancelFunc

	slotMu           sync.Mutex
	controlSender    *transport.ControlSender
	trackingSender   *transport.Sender
	statisticsSender *transport.Sender
	logMirrorSender  *transport.ControlSender
	decoder          external.DecoderSink

	notifierMu sync.Mutex
	notifierCh chan struct{}

	hudQueue *hud.Queue
}

// NewContext returns a Context with the alive flag set and resumed set,
// ready for the Lifecycle Supervisor to drive. resumed starts true: nothing
// in this core models an externally-triggered pause, so it is simply
// always-on state a future embedder can flip off.
func NewContext() *Context {
	c := &Context{
		streamCtx: context.Background(),
		hudQueue:  hud.NewQueue(),
	}
	c.alive.Store(true)
	c.resumed.Store(true)
	return c
}

// HUD returns the event queue an external HUD/UI layer drains.
func (c *Context) HUD() *hud.Queue { return c.hudQueue }

// PostHUD is a convenience wrapper for c.HUD().Push(event).
func (c *Context) PostHUD(event hud.Event) { c.hudQueue.Push(event) }

// Alive reports whether the client process as a whole should keep running.
func (c *Context) Alive() bool { return c.alive.Load() }

// SetAlive sets the overall liveness flag. Only the embedder (via the
// Supervisor's owner) clears it; workers never do.
func (c *Context) SetAlive(v bool) { c.alive.Store(v) }

// Resumed reports whether the Supervisor should be attempting connections
// at all right now.
func (c *Context) Resumed() bool { return c.resumed.Load() }

// SetResumed toggles whether the Supervisor attempts connections.
func (c *Context) SetResumed(v bool) { c.resumed.Store(v) }

// Streaming reports whether a Connection Session has committed past
// Handshake into the Streaming phase.
func (c *Context) Streaming() bool { return c.streaming.Load() }

// SetStreaming transitions the streaming flag and, in lockstep, the
// streaming-scoped context every worker's blocking external calls are
// bound to: true opens a fresh context, false cancels it.
func (c *Context) SetStreaming(v bool) {
	c.streaming.Store(v)

	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	if v {
		c.streamCtx, c.streamCancel = context.WithCancel(context.Background())
		return
	}
	if c.streamCancel != nil {
		c.streamCancel()
	}
}

// StreamingContext returns a context.Context cancelled the moment streaming
// stops, for workers to hand to blocking external collaborator calls
// (PlayLoop, RecordLoop) that have no timeout of their own.
func (c *Context) StreamingContext() context.Context {
	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	return c.streamCtx
}

// ControlSender returns the currently installed control-socket sender, or
// nil if no session is streaming.
func (c *Context) ControlSender() *transport.ControlSender {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.controlSender
}

// SetControlSender installs the control sender slot. Called once during
// Streaming-phase setup.
func (c *Context) SetControlSender(s *transport.ControlSender) {
	c.slotMu.Lock()
	c.controlSender = s
	c.slotMu.Unlock()
}

// ClearControlSender empties the control sender slot during teardown.
func (c *Context) ClearControlSender() {
	c.slotMu.Lock()
	c.controlSender = nil
	c.slotMu.Unlock()
}

// TrackingSender returns the outbound tracking-substream handle, for an
// external pose-producing collaborator to push updates through directly.
func (c *Context) TrackingSender() *transport.Sender {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.trackingSender
}

func (c *Context) setTrackingSender(s *transport.Sender) {
	c.slotMu.Lock()
	c.trackingSender = s
	c.slotMu.Unlock()
}

// StatisticsSender returns the outbound statistics-substream handle.
func (c *Context) StatisticsSender() *transport.Sender {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.statisticsSender
}

func (c *Context) setStatisticsSender(s *transport.Sender) {
	c.slotMu.Lock()
	c.statisticsSender = s
	c.slotMu.Unlock()
}

func (c *Context) clearOutboundSlots() {
	c.slotMu.Lock()
	c.trackingSender = nil
	c.statisticsSender = nil
	c.slotMu.Unlock()
}

// LogMirror returns the installed log-mirror sender, or nil if log
// mirroring isn't active this session.
func (c *Context) LogMirror() *transport.ControlSender {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.logMirrorSender
}

func (c *Context) setLogMirror(s *transport.ControlSender) {
	c.slotMu.Lock()
	c.logMirrorSender = s
	c.slotMu.Unlock()
}

func (c *Context) clearLogMirror() {
	c.slotMu.Lock()
	c.logMirrorSender = nil
	c.slotMu.Unlock()
}

// Decoder returns the installed decoder sink, or nil outside Streaming.
func (c *Context) Decoder() external.DecoderSink {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()
	return c.decoder
}

func (c *Context) setDecoder(d external.DecoderSink) {
	c.slotMu.Lock()
	c.decoder = d
	c.slotMu.Unlock()
}

func (c *Context) clearDecoder() {
	c.slotMu.Lock()
	c.decoder = nil
	c.slotMu.Unlock()
}

// InstallDisconnectNotifier creates and installs a fresh disconnect
// notifier channel, returning it for the session to block on. Buffered so
// redundant fires from multiple workers never block a producer.
func (c *Context) InstallDisconnectNotifier() <-chan struct{} {
	ch := make(chan struct{}, 8)
	c.notifierMu.Lock()
	c.notifierCh = ch
	c.notifierMu.Unlock()
	return ch
}

// ClearDisconnectNotifier empties the notifier slot. Safe to call
// unconditionally on every session exit path, including ones where no
// notifier was ever installed (Discovery failed before Handshake began).
func (c *Context) ClearDisconnectNotifier() {
	c.notifierMu.Lock()
	c.notifierCh = nil
	c.notifierMu.Unlock()
}

// FireDisconnect signals the installed disconnect notifier, if any. Safe to
// call from any worker, any number of times; callers after the first are a
// no-op once the channel's buffer is full.
func (c *Context) FireDisconnect() {
	c.notifierMu.Lock()
	ch := c.notifierCh
	c.notifierMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}
