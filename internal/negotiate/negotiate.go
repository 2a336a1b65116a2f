// Package negotiate turns the two JSON blobs carried in a StreamConfig
// control message into concrete, typed settings. It is a pure function over
// its inputs: no I/O, no shared state, so it's exercised directly by tests
// without standing up a session.
//
// Grounded on the original connection handshake's merge-then-default shape
// (session settings merged over documented defaults; negotiated values
// extracted field-by-field with a fallback on anything missing or
// mistyped), re-expressed as Go's "unmarshal into a pre-populated struct"
// idiom for the session blob and a map[string]any walk for the negotiated
// blob, in the spirit of the teacher's own tolerant parsing in
// server_addr.go.
package negotiate

import (
	"encoding/json"
	"fmt"
)

// EffectiveSettings is the session blob reduced to exactly what this core
// acts on. Unknown keys in the incoming JSON are ignored; missing keys keep
// their DefaultSettings value.
type EffectiveSettings struct {
	Connection ConnectionSettings `json:"connection"`
	Video      VideoSettings      `json:"video"`
	Audio      AudioSettings      `json:"audio"`
	Headset    HeadsetSettings    `json:"headset"`
	Logging    LoggingSettings    `json:"logging"`
}

type ConnectionSettings struct {
	StreamPort            int    `json:"stream_port"`
	StreamProtocol        string `json:"stream_protocol"`
	PacketSize            int    `json:"packet_size"`
	SendBufferBytes       int    `json:"send_buffer_bytes"`
	RecvBufferBytes       int    `json:"recv_buffer_bytes"`
	StatisticsHistorySize int    `json:"statistics_history_size"`
	AvoidVideoGlitching   bool   `json:"avoid_video_glitching"`
}

type VideoSettings struct {
	MaxBufferingFrames     int               `json:"max_buffering_frames"`
	BufferingHistoryWeight float64           `json:"buffering_history_weight"`
	CodecOptions           map[string]string `json:"codec_options"`
}

type AudioSettings struct {
	GameAudioEnabled   bool `json:"game_audio_enabled"`
	MicrophoneEnabled  bool `json:"microphone_enabled"`
}

type HeadsetSettings struct {
	ControllersPipelineDepth float64 `json:"controllers_pipeline_depth"`
}

// LoggingSettings is the session blob's logging section. The streaming
// phase does not read it: whether client log lines are mirrored to the host
// is decided by the LogMirrorSource collaborator's Enabled, and MirrorLevel
// is not applied as a threshold to the mirrored lines.
type LoggingSettings struct {
	MirrorEnabled bool   `json:"mirror_enabled"`
	MirrorLevel   string `json:"mirror_level"`
}

// DefaultSettings returns the baseline EffectiveSettings a session blob is
// merged over. Every field here is reachable in practice: a host that sends
// an empty or partial session blob still gets a working session.
func DefaultSettings() EffectiveSettings {
	return EffectiveSettings{
		Connection: ConnectionSettings{
			StreamPort:            9944,
			StreamProtocol:        "quic",
			PacketSize:            1400,
			SendBufferBytes:       2 << 20,
			RecvBufferBytes:       2 << 20,
			StatisticsHistorySize: 256,
			AvoidVideoGlitching:   false,
		},
		Video: VideoSettings{
			MaxBufferingFrames:     2,
			BufferingHistoryWeight: 0.9,
		},
		Audio: AudioSettings{
			GameAudioEnabled:  true,
			MicrophoneEnabled: true,
		},
		Headset: HeadsetSettings{
			ControllersPipelineDepth: 2.0,
		},
		Logging: LoggingSettings{
			MirrorEnabled: false,
			MirrorLevel:   "warn",
		},
	}
}

// NegotiatedValues are the flat, per-field-defaulted values carried in the
// negotiated blob, as opposed to the structured session blob.
type NegotiatedValues struct {
	ViewResolution      [2]uint32
	RefreshRateHint     float64
	GameAudioSampleRate uint32
}

func defaultNegotiatedValues() NegotiatedValues {
	return NegotiatedValues{
		ViewResolution:      [2]uint32{0, 0},
		RefreshRateHint:     60,
		GameAudioSampleRate: 44100,
	}
}

// Negotiate merges sessionJSON over DefaultSettings and extracts
// NegotiatedValues from negotiatedJSON, falling back per field rather than
// failing the whole handshake over one bad or absent value.
//
// An error is returned when sessionJSON isn't valid JSON or one of its
// known fields has the wrong JSON type; a missing field is not an error,
// since a missing field is exactly what the default is for.
func Negotiate(sessionJSON, negotiatedJSON []byte) (EffectiveSettings, NegotiatedValues, error) {
	settings := DefaultSettings()
	if len(sessionJSON) > 0 {
		if err := json.Unmarshal(sessionJSON, &settings); err != nil {
			return EffectiveSettings{}, NegotiatedValues{}, fmt.Errorf("negotiate: parse session blob: %w", err)
		}
	}

	values := defaultNegotiatedValues()
	if len(negotiatedJSON) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(negotiatedJSON, &raw); err == nil {
			applyNegotiatedValues(&values, raw)
		}
		// A malformed negotiated blob falls back to defaults wholesale
		// rather than aborting the handshake; the session blob is the one
		// place a parse failure is treated as fatal.
	}

	return settings, values, nil
}

func applyNegotiatedValues(values *NegotiatedValues, raw map[string]any) {
	if res, ok := raw["view_resolution"].([]any); ok && len(res) == 2 {
		w, wok := toUint32(res[0])
		h, hok := toUint32(res[1])
		if wok && hok {
			values.ViewResolution = [2]uint32{w, h}
		}
	}
	if rate, ok := toFloat64(raw["refresh_rate_hint"]); ok && rate > 0 {
		values.RefreshRateHint = rate
	}
	if rate, ok := toUint32(raw["game_audio_sample_rate"]); ok && rate > 0 {
		values.GameAudioSampleRate = rate
	}
}

func toFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func toUint32(v any) (uint32, bool) {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, false
	}
	return uint32(f), true
}
