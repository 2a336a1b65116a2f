package core

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/protocol"
	"github.com/northfall-xr/headsetcore/internal/transport"
)

// Each worker below is grounded directly on the matching goroutine in the
// original connection_pipeline (video_receive_thread, game_audio_thread,
// microphone_thread, haptics_receive_thread, control_send_thread,
// control_receive_thread, stream_receive_thread), re-expressed in the
// teacher's own goroutine idiom: client/app.go's sendLoop/adaptBitrateLoop
// (consecutive-error handling, select over a done channel) and
// client/audio.go's captureLoop/playbackLoop (for loop gated on an
// atomic.Bool, no mutex needed).
//
// All seven share one termination rule: exit on ctx.Streaming() going
// false, or immediately on a fatal transport error after firing the
// disconnect notifier. The control-send worker also stops when resumed or
// alive goes false, and fires the disconnect notifier whenever it exits.

func requestIDR(ctx *Context) {
	if sender := ctx.ControlSender(); sender != nil {
		_ = sender.Send(protocol.ControlMessage{Type: protocol.TypeRequestIDR})
	}
}

// videoReceiveWorker decodes arriving video packets, tracking a
// stream-corrupted latch so a lost or decoder-rejected packet suppresses
// further pushes (when avoid_video_glitching is set) until the next IDR,
// requesting one each time the latch newly engages.
func videoReceiveWorker(ctx *Context, cfg Config, c *committedHandshake, recv *transport.Receiver) {
	corrupted := false
	for ctx.Streaming() {
		pkt, err := recv.Recv(protocol.StreamingRecvTimeout)
		if errors.Is(err, transport.ErrTimeout) {
			continue
		}
		if err != nil {
			ctx.FireDisconnect()
			return
		}

		header, nal, err := protocol.ParseVideoPacket(pkt.Payload)
		if err != nil {
			continue
		}
		c.statsManager.ReportVideoPacketReceived(header.TimestampNs)
		c.statsManager.ReportPacketOutcome(pkt.Lost)

		var shouldPush, shouldRequestIDR bool
		corrupted, shouldPush, shouldRequestIDR = nextVideoState(corrupted, header, pkt.Lost, c.effective.Connection.AvoidVideoGlitching)
		if shouldRequestIDR {
			requestIDR(ctx)
		}
		if !shouldPush {
			continue
		}

		decoder := ctx.Decoder()
		if decoder == nil {
			continue
		}
		if !decoder.PushNAL(header.TimestampNs, nal) {
			corrupted = true
			requestIDR(ctx)
		}
	}
}

// nextVideoState decides, for one arriving video packet, the latch's next
// value, whether the packet should be pushed to the decoder at all, and
// whether an IDR should be requested as a result.
//
// Rules: an IDR always clears the latch. A lost non-IDR packet sets the
// latch and always triggers an IDR request. While the latch is set and
// avoid_video_glitching is on, packets are dropped (and another IDR
// requested) rather than handed to a decoder that's already missing data
// it needs to stay in sync.
func nextVideoState(corrupted bool, header protocol.VideoHeader, lost bool, avoidGlitching bool) (nextCorrupted bool, shouldPush bool, shouldRequestIDR bool) {
	switch {
	case header.IsIDR:
		corrupted = false
	case lost:
		corrupted = true
		shouldRequestIDR = true
	}

	if corrupted && avoidGlitching {
		return corrupted, false, true
	}
	return corrupted, true, shouldRequestIDR
}

// gameAudioWorker forwards decoded game-audio packets into the audio
// output collaborator's play loop for as long as streaming lasts. If game
// audio is disabled in the negotiated settings it returns immediately,
// still spawned so worker-join accounting stays uniform across sessions.
func gameAudioWorker(ctx *Context, cfg Config, c *committedHandshake, recv *transport.Receiver) {
	if !c.effective.Audio.GameAudioEnabled || cfg.AudioOutput == nil {
		return
	}
	if err := cfg.AudioOutput.Open(int(c.values.GameAudioSampleRate), 2); err != nil {
		ctx.PostHUD(hud.UpdateHudMessage{Text: fmt.Sprintf("Game audio device error: %v", err)})
		return
	}
	defer cfg.AudioOutput.Close()

	source := make(chan []byte, protocol.MaxUnreadPackets)
	go pumpReceiverToChannel(ctx, recv, source)

	if err := cfg.AudioOutput.PlayLoop(ctx.StreamingContext(), source); err != nil {
		log.Printf("[worker:game-audio] play loop: %v", err)
	}
}

// pumpReceiverToChannel relays packets off a substream receiver onto a
// channel an external collaborator consumes, dropping frames rather than
// blocking if the collaborator falls behind.
func pumpReceiverToChannel(ctx *Context, recv *transport.Receiver, out chan<- []byte) {
	for ctx.Streaming() {
		pkt, err := recv.Recv(protocol.StreamingRecvTimeout)
		if errors.Is(err, transport.ErrTimeout) {
			continue
		}
		if err != nil {
			ctx.FireDisconnect()
			return
		}
		select {
		case out <- pkt.Payload:
		default:
		}
	}
}

// microphoneWorker runs the audio input collaborator's record loop,
// retrying with a bounded backoff on capture-device failure rather than
// the original's unbounded busy retry (§9).
func microphoneWorker(ctx *Context, cfg Config, c *committedHandshake) {
	if !c.effective.Audio.MicrophoneEnabled || cfg.AudioInput == nil {
		return
	}
	sender := c.streamSocket.RequestSender(protocol.SubstreamAudio)
	if err := cfg.AudioInput.Open(48000, 1); err != nil {
		ctx.PostHUD(hud.UpdateHudMessage{Text: fmt.Sprintf("Microphone error: %v", err)})
		return
	}
	defer cfg.AudioInput.Close()

	sink := make(chan []byte, protocol.MaxUnreadPackets)
	go func() {
		for frame := range sink {
			_ = sender.Send(frame)
		}
	}()
	defer close(sink)

	var backoff retryBackoff
	for ctx.Streaming() {
		err := cfg.AudioInput.RecordLoop(ctx.StreamingContext(), sink)
		if err != nil {
			log.Printf("[worker:mic] record error: %v", err)
			backoff.Sleep(ctx.StreamingContext())
			continue
		}
		// RecordLoop returns nil once ctx is cancelled, which only happens
		// when streaming stops; the loop condition above ends the worker
		// on its own. A clean return still resets the backoff so a capture
		// device that recovers mid-session doesn't inherit a stale delay.
		backoff.reset()
	}
}

// hapticsReceiveWorker forwards haptics pulses from the host onto the HUD
// event queue for an external haptics collaborator to render.
func hapticsReceiveWorker(ctx *Context, recv *transport.Receiver) {
	for ctx.Streaming() {
		pkt, err := recv.Recv(protocol.StreamingRecvTimeout)
		if errors.Is(err, transport.ErrTimeout) {
			continue
		}
		if err != nil {
			ctx.FireDisconnect()
			return
		}
		event, err := protocol.ParseHaptics(pkt.Payload)
		if err != nil {
			continue
		}
		ctx.PostHUD(hud.Haptics{
			DeviceID:  event.DeviceID,
			Duration:  event.Duration,
			Frequency: event.Frequency,
			Amplitude: event.Amplitude,
		})
	}
}

// controlSendWorker runs the merged keepalive/battery/log-mirror duty
// cycle: one pass drains at most one log line (bounded by
// StreamingRecvTimeout either way), then fires keepalive and battery
// reports whose own intervals have elapsed.
func controlSendWorker(ctx *Context, cfg Config) {
	nextKeepalive := time.Now()
	nextBattery := time.Now()

	for ctx.Streaming() && ctx.Resumed() && ctx.Alive() {
		if cfg.LogMirror != nil && cfg.LogMirror.Enabled() {
			recvCtx, cancel := timeoutContext(ctx, protocol.StreamingRecvTimeout)
			line, severity, ok := cfg.LogMirror.Recv(recvCtx)
			cancel()
			if ok {
				if sender := ctx.LogMirror(); sender != nil {
					if err := sender.Send(protocol.ControlMessage{
						Type:     protocol.TypeLogLine,
						Severity: severityString(severity),
						Message:  line,
					}); err != nil {
						ctx.PostHUD(hud.UpdateHudMessage{Text: serverDisconnectedMessage})
						ctx.FireDisconnect()
						return
					}
				}
			}
		} else {
			sleepBounded(ctx, protocol.StreamingRecvTimeout)
		}

		now := time.Now()
		if !now.Before(nextKeepalive) {
			if sender := ctx.ControlSender(); sender != nil {
				_ = sender.Send(protocol.ControlMessage{Type: protocol.TypeKeepAlive})
			}
			nextKeepalive = now.Add(protocol.KeepaliveInterval)
		}

		if cfg.Battery != nil && !now.Before(nextBattery) {
			if gauge, plugged, ok := cfg.Battery.Status(); ok {
				if sender := ctx.ControlSender(); sender != nil {
					_ = sender.Send(protocol.ControlMessage{
						Type:    protocol.TypeBattery,
						Gauge:   gauge,
						Plugged: plugged,
					})
				}
			}
			nextBattery = now.Add(protocol.BatteryPollInterval)
		}
	}
	ctx.FireDisconnect()
}

// controlReceiveWorker handles every control message that arrives outside
// of the handshake: decoder config updates and a host-initiated restart.
// Anything else is ignored, matching the forward-compatible posture of the
// rest of the protocol.
func controlReceiveWorker(ctx *Context, cfg Config, c *committedHandshake) {
	for ctx.Streaming() {
		msg, err := c.controlReceiver.Recv(protocol.StreamingRecvTimeout)
		if errors.Is(err, transport.ErrTimeout) {
			continue
		}
		if err != nil {
			ctx.PostHUD(hud.UpdateHudMessage{Text: serverDisconnectedMessage})
			ctx.FireDisconnect()
			return
		}

		switch msg.Type {
		case protocol.TypeInitializeDecoder:
			// the config blob is opaque to this core; it is only ever
			// forwarded so the collaborator can create its decoder instance.
			if decoder := ctx.Decoder(); decoder != nil {
				decoder.Configure(msg.DecoderConfig)
			}
		case protocol.TypeRestarting:
			ctx.PostHUD(hud.UpdateHudMessage{Text: "Host is restarting..."})
			ctx.FireDisconnect()
			return
		}
	}
}

// streamPumpWorker drives the stream socket's single receive loop, the
// only place datagrams are pulled off the wire and fanned out to
// per-substream backlogs.
//
// The original's equivalent thread logged "Client disconnected" on
// transport failure here even though it is the client's own receive loop
// observing the host go away — flagged in design notes as a mislabelled
// direction rather than intentional, and corrected here to say what
// actually happened.
func streamPumpWorker(ctx *Context, c *committedHandshake) {
	for ctx.Streaming() {
		err := c.streamSocket.Pump(protocol.StreamingRecvTimeout)
		if errors.Is(err, transport.ErrTimeout) {
			continue
		}
		if err != nil {
			ctx.PostHUD(hud.UpdateHudMessage{Text: serverDisconnectedMessage})
			ctx.FireDisconnect()
			return
		}
	}
}
