// Package protocol defines the wire constants and message shapes shared by
// the control socket and the stream socket. Nothing in here talks to the
// network directly; see internal/transport for that.
package protocol

import "time"

// ProtocolID is bumped whenever a wire-incompatible change is made to either
// the control message envelope or the datagram header below.
const ProtocolID = uint64(1)

// Timing constants, named after the behaviour they bound rather than any
// particular implementation.
const (
	DiscoveryRetryPause      = 500 * time.Millisecond
	RetryConnectMinInterval  = 1 * time.Second
	ConnectionRetryInterval  = 1 * time.Second
	HandshakeActionTimeout   = 2 * time.Second
	StreamingRecvTimeout     = 500 * time.Millisecond
	KeepaliveInterval        = 5 * time.Second
	BatteryPollInterval      = 5 * time.Second
)

// MaxUnreadPackets bounds the backlog kept per stream-socket substream
// receiver before the oldest unread packet is dropped.
const MaxUnreadPackets = 10

// SubstreamID names one of the logical channels multiplexed over the stream
// socket's datagrams.
type SubstreamID uint8

const (
	SubstreamVideo SubstreamID = iota + 1
	SubstreamAudio
	SubstreamHaptics
	SubstreamTracking
	SubstreamStatistics
)

func (s SubstreamID) String() string {
	switch s {
	case SubstreamVideo:
		return "video"
	case SubstreamAudio:
		return "audio"
	case SubstreamHaptics:
		return "haptics"
	case SubstreamTracking:
		return "tracking"
	case SubstreamStatistics:
		return "statistics"
	default:
		return "unknown"
	}
}

// Control message types. Unlisted types arriving on the wire are ignored by
// the receiving worker rather than treated as an error, matching the
// forward-compatible posture of the original protocol.
const (
	TypeConnectionAccepted = "connection_accepted"
	TypeStreamConfig       = "stream_config"
	TypeStartStream        = "start_stream"
	TypeStreamReady        = "stream_ready"
	TypeRestarting         = "restarting"
	TypeInitializeDecoder  = "initialize_decoder"
	TypeKeepAlive          = "keepalive"
	TypeRequestIDR         = "request_idr"
	TypeBattery            = "battery"
	TypeLogLine            = "log_line"
)

// ControlMessage is the single envelope type used for every message sent or
// received over the control socket. Fields are optional per type; unused
// fields are omitted on the wire.
type ControlMessage struct {
	Type string `json:"type"`

	// connection_accepted
	ProtocolID   uint64        `json:"protocol_id,omitempty"`
	DisplayName  string        `json:"display_name,omitempty"`
	ClientIP     string        `json:"client_ip,omitempty"`
	Capabilities *Capabilities `json:"capabilities,omitempty"`

	// stream_config
	Session    string `json:"session,omitempty"`
	Negotiated string `json:"negotiated,omitempty"`

	// initialize_decoder carries the codec config blob verbatim; the core
	// never interprets it, only forwards it to the decoder collaborator.
	DecoderConfig string `json:"decoder_config,omitempty"`

	// battery
	DeviceID uint64 `json:"device_id,omitempty"`
	Gauge    int    `json:"gauge,omitempty"`
	Plugged  bool   `json:"plugged,omitempty"`

	// log_line
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Capabilities describes what the client is able to render and capture,
// sent once during the handshake so the host can pick compatible settings.
type Capabilities struct {
	DefaultViewResolution  [2]uint32 `json:"default_view_resolution"`
	SupportedRefreshRates  []float64 `json:"supported_refresh_rates"`
	MicrophoneSampleRate   uint32    `json:"microphone_sample_rate,omitempty"`
}
