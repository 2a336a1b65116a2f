package core

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/northfall-xr/headsetcore/internal/discovery"
	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/negotiate"
	"github.com/northfall-xr/headsetcore/internal/protocol"
	"github.com/northfall-xr/headsetcore/internal/stats"
	"github.com/northfall-xr/headsetcore/internal/transport"

	"github.com/google/uuid"
)

const serverDisconnectedMessage = "Disconnected from host"

// RunSession runs one full Connection Session: Discovery, then Handshake,
// then (if committed) Streaming. A non-nil error means a setup phase
// failed outright and the Supervisor should surface "Connection error";
// a nil error covers every other exit path, including the several
// recoverable/clean returns along the way (already reported via HUD).
//
// The whole session is wrapped in a single scoped teardown guard: on every
// exit path the disconnect notifier slot is cleared, mirroring
// connection.rs's own cleanup guard at the same scope.
func RunSession(ctx *Context, cfg Config) error {
	sessionID := uuid.New()
	defer ctx.ClearDisconnectNotifier()

	hostAddr, ctrl, err := runDiscovery(ctx, cfg)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if ctrl == nil {
		return nil
	}
	defer ctrl.Close()

	notifier := ctx.InstallDisconnectNotifier()

	committed, err := runHandshake(ctx, cfg, ctrl, hostAddr)
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	if committed == nil {
		return nil
	}
	// LIFO defer order matters here: the listener owns the UDP socket the
	// stream connection is multiplexed over, so it must be closed after
	// the connection itself, not before.
	defer committed.streamListener.Close()
	defer committed.streamSocket.Close()

	log.Printf("[session %s] streaming with host %s", shortID(sessionID), hostAddr)
	runStreaming(ctx, cfg, committed, notifier)
	return nil
}

func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}

// runDiscovery binds the control-socket listener, then loops
// broadcast-and-accept until a host connects, ctx stops being alive, or
// the local network is unusable (a recoverable condition reported via HUD
// rather than escalated as an error).
func runDiscovery(ctx *Context, cfg Config) (hostAddr string, ctrl *transport.Control, err error) {
	ln, err := discovery.Listen()
	if err != nil {
		return "", nil, fmt.Errorf("bind control listener: %w", err)
	}
	// The listener is only needed to accept the one inbound connection;
	// once we have it (or give up) the listening socket itself can go.
	defer ln.Close()

	announcer, err := discovery.NewAnnouncer(cfg.Hostname, ln.Port())
	if err != nil {
		return "", nil, fmt.Errorf("start announcer: %w", err)
	}
	defer announcer.Close()

	for ctx.Alive() {
		if err := announcer.Broadcast(); err != nil {
			ctx.PostHUD(hud.UpdateHudMessage{Text: "Cannot connect to the internet"})
			return "", nil, nil
		}

		conn, addr, err := ln.Accept(protocol.DiscoveryRetryPause)
		if err == nil {
			return addr, conn, nil
		}
		if !errors.Is(err, transport.ErrTimeout) {
			return "", nil, fmt.Errorf("accept: %w", err)
		}
	}
	return "", nil, nil
}

// committedHandshake is everything the Streaming phase needs, produced
// only once every fallible step of the Handshake phase has succeeded.
type committedHandshake struct {
	effective       negotiate.EffectiveSettings
	values          negotiate.NegotiatedValues
	statsManager    *stats.Manager
	controlSender   *transport.ControlSender
	controlReceiver *transport.ControlReceiver
	streamListener  *transport.StreamListener
	streamSocket    *transport.Stream
}

// runHandshake runs §4.3 steps 1-9. A non-nil error means a step that the
// spec treats as setup-fatal failed. A nil committedHandshake with a nil
// error means a step treated as a clean/recoverable outcome was hit
// (Restarting, an unexpected packet, a send failure after StreamReady) —
// already reported via HUD, and the caller should simply retry.
func runHandshake(ctx *Context, cfg Config, ctrl *transport.Control, hostAddr string) (*committedHandshake, error) {
	capabilities := protocol.Capabilities{
		DefaultViewResolution: cfg.DefaultViewResolution,
		SupportedRefreshRates: cfg.SupportedRefreshRates,
	}
	if cfg.AudioInput != nil {
		capabilities.MicrophoneSampleRate = 48000
	}

	if err := ctrl.Send(protocol.ControlMessage{
		Type:         protocol.TypeConnectionAccepted,
		ProtocolID:   protocol.ProtocolID,
		DisplayName:  cfg.DeviceModel,
		ClientIP:     localIP(cfg),
		Capabilities: &capabilities,
	}); err != nil {
		return nil, fmt.Errorf("send connection_accepted: %w", err)
	}

	streamConfigMsg, err := ctrl.Recv(protocol.HandshakeActionTimeout)
	if err != nil {
		return nil, fmt.Errorf("recv stream_config: %w", err)
	}
	if streamConfigMsg.Type != protocol.TypeStreamConfig {
		return nil, fmt.Errorf("unexpected packet type %q while waiting for stream_config", streamConfigMsg.Type)
	}

	effective, values, err := negotiate.Negotiate([]byte(streamConfigMsg.Session), []byte(streamConfigMsg.Negotiated))
	if err != nil {
		return nil, fmt.Errorf("parse stream_config: %w", err)
	}

	frameDuration := frameDurationFromRefreshRate(values.RefreshRateHint)
	statsManager := stats.New(effective.Connection.StatisticsHistorySize, frameDuration, effective.Headset.ControllersPipelineDepth)

	sender, receiver := ctrl.Split()

	startMsg, err := receiver.Recv(protocol.HandshakeActionTimeout)
	if err != nil {
		ctx.PostHUD(hud.UpdateHudMessage{Text: serverDisconnectedMessage})
		return nil, nil
	}
	switch startMsg.Type {
	case protocol.TypeStartStream:
		// continue below
	case protocol.TypeRestarting:
		ctx.PostHUD(hud.UpdateHudMessage{Text: "Host is restarting..."})
		return nil, nil
	default:
		ctx.PostHUD(hud.UpdateHudMessage{Text: "Unexpected packet"})
		return nil, nil
	}

	listener, err := transport.BindStream(
		effective.Connection.StreamPort,
		effective.Connection.SendBufferBytes,
		effective.Connection.RecvBufferBytes,
		effective.Connection.PacketSize,
	)
	if err != nil {
		return nil, fmt.Errorf("bind stream transport: %w", err)
	}

	if err := sender.Send(protocol.ControlMessage{Type: protocol.TypeStreamReady}); err != nil {
		listener.Close()
		ctx.PostHUD(hud.UpdateHudMessage{Text: serverDisconnectedMessage})
		return nil, nil
	}

	// From here on the session is committed: AcceptFromHost is the last
	// fallible step, and once it succeeds nothing below may fail.
	streamSocket, err := listener.AcceptFromHost(protocol.HandshakeActionTimeout)
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("accept stream transport: %w", err)
	}

	return &committedHandshake{
		effective:       effective,
		values:          values,
		statsManager:    statsManager,
		controlSender:   sender,
		controlReceiver: receiver,
		streamListener:  listener,
		streamSocket:    streamSocket,
	}, nil
}

func localIP(cfg Config) string {
	if cfg.LocalIP == nil {
		return ""
	}
	return cfg.LocalIP.LocalIP()
}

func frameDurationFromRefreshRate(hz float64) time.Duration {
	if hz <= 0 {
		hz = 60
	}
	return time.Duration(float64(time.Second) / hz)
}
