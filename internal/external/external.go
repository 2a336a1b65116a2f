// Package external declares the narrow interfaces every out-of-scope
// dependency (decoder, audio I/O, battery, logging backend, platform
// queries) is consumed through. None of these are implemented for real
// hardware here; cmd/headsetclient wires trivial stand-ins so the lifecycle
// can run end to end without a headset attached.
//
// Grounded on the teacher's own pattern of hiding a concrete SDK behind a
// small interface: client/interfaces.go's Transporter, and
// client/audio.go's paStream/opusEncoder/opusDecoder.
package external

import "context"

// Severity orders log-mirror lines the same way most structured loggers do.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// VideoBuffering configures how aggressively the decoder sink should buffer
// ahead of presentation, derived from the negotiated video settings.
type VideoBuffering struct {
	MaxBufferingFrames     int
	BufferingHistoryWeight float64
	CodecOptions           map[string]string
}

// DecoderSink receives decoded-frame input. It is never asked to decode
// anything itself from this core's point of view — that's the collaborator's
// job once PushNAL hands it a NAL unit.
type DecoderSink interface {
	// InitConfig is called once per streaming session before any NAL unit
	// is pushed, carrying the negotiated buffering policy.
	InitConfig(VideoBuffering)
	// Configure (re)creates the underlying decoder instance from the
	// codec-specific config blob carried by an InitializeDecoder control
	// message. Called each time the host sends such a message, e.g. after a
	// codec change.
	Configure(config string)
	// PushNAL submits one encoded access unit. accepted reports whether
	// the sink's internal buffer had room; the caller treats a false
	// return the same as a lost packet for corruption-tracking purposes.
	PushNAL(timestampNs int64, nal []byte) (accepted bool)
	// Close releases any decoder resources. Called once streaming stops.
	Close()
}

// AudioOutputDevice plays back a stream of PCM frames produced elsewhere.
type AudioOutputDevice interface {
	Open(sampleRate, channels int) error
	// PlayLoop consumes from source until ctx is cancelled or source is
	// closed, whichever happens first.
	PlayLoop(ctx context.Context, source <-chan []byte) error
	Close() error
}

// AudioInputDevice captures microphone PCM frames.
type AudioInputDevice interface {
	Open(sampleRate, channels int) error
	// RecordLoop pushes captured frames onto sink until ctx is cancelled.
	// A non-nil return signals a capture-device failure; the caller
	// decides whether and how to retry.
	RecordLoop(ctx context.Context, sink chan<- []byte) error
	Close() error
}

// BatteryGauge reports device battery state on platforms that expose one.
// ok is false where the platform has no battery (or the query otherwise
// doesn't apply), matching the "on supported platforms" qualifier on the
// keepalive worker's battery report.
type BatteryGauge interface {
	Status() (gaugePercent int, plugged bool, ok bool)
}

// LocalIPQuery returns the client's own LAN address, used in the handshake
// capabilities message and the status overlay.
type LocalIPQuery interface {
	LocalIP() string
}

// LogMirrorSource is the receive side of whatever produces the client's own
// log lines for forwarding to the host. Recv blocks up to the caller's
// choosing and reports ok=false on timeout, mirroring a bounded channel
// receive.
type LogMirrorSource interface {
	// Recv blocks until ctx is done or a line becomes available. ok is
	// false when ctx expired first.
	Recv(ctx context.Context) (line string, severity Severity, ok bool)
	// Enabled reports whether log mirroring should run at all this
	// session, decided once at streaming start.
	Enabled() bool
}
