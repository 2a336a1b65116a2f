package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

func float64bits(f float64) uint64    { return math.Float64bits(f) }
func float64frombits(b uint64) float64 { return math.Float64frombits(b) }

// datagramHeaderLen is [substream:1][seq:2], matching the teacher's
// [userID:2][seq:2] datagram header shape one field narrower, since the
// substream id fits a single byte.
const datagramHeaderLen = 3

// MarshalDatagram prepends the substream/seq header to payload, reusing buf
// if it has enough capacity (buf may be nil).
func MarshalDatagram(id SubstreamID, seq uint16, payload []byte, buf []byte) []byte {
	out := buf[:0]
	if cap(out) < datagramHeaderLen+len(payload) {
		out = make([]byte, 0, datagramHeaderLen+len(payload))
	}
	out = append(out, byte(id))
	out = binary.BigEndian.AppendUint16(out, seq)
	out = append(out, payload...)
	return out
}

// ParseDatagram splits a raw stream-socket datagram into its substream id,
// sequence number and payload. The returned payload aliases raw.
func ParseDatagram(raw []byte) (id SubstreamID, seq uint16, payload []byte, err error) {
	if len(raw) < datagramHeaderLen {
		return 0, 0, nil, fmt.Errorf("protocol: datagram too short (%d bytes)", len(raw))
	}
	id = SubstreamID(raw[0])
	seq = binary.BigEndian.Uint16(raw[1:3])
	payload = raw[datagramHeaderLen:]
	return id, seq, payload, nil
}

// videoHeaderLen is [timestampNs:8][isIDR:1].
const videoHeaderLen = 9

// VideoHeader carries the per-frame metadata the video-recv worker needs to
// drive decoder submission and corruption tracking.
type VideoHeader struct {
	TimestampNs int64
	IsIDR       bool
}

// MarshalVideoPacket prepends a VideoHeader to an encoded NAL payload.
func MarshalVideoPacket(h VideoHeader, nal []byte, buf []byte) []byte {
	out := buf[:0]
	if cap(out) < videoHeaderLen+len(nal) {
		out = make([]byte, 0, videoHeaderLen+len(nal))
	}
	out = binary.BigEndian.AppendUint64(out, uint64(h.TimestampNs))
	if h.IsIDR {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, nal...)
	return out
}

// ParseVideoPacket splits a video substream payload into its header and NAL
// bytes. The returned NAL slice aliases payload.
func ParseVideoPacket(payload []byte) (VideoHeader, []byte, error) {
	if len(payload) < videoHeaderLen {
		return VideoHeader{}, nil, fmt.Errorf("protocol: video packet too short (%d bytes)", len(payload))
	}
	h := VideoHeader{
		TimestampNs: int64(binary.BigEndian.Uint64(payload[0:8])),
		IsIDR:       payload[8] != 0,
	}
	return h, payload[videoHeaderLen:], nil
}

// hapticsLen is [deviceID:8][durationMs:8 float64][frequency:8 float64][amplitude:8 float64].
const hapticsLen = 32

// HapticsEvent is the fixed-size body of a haptics substream packet.
type HapticsEvent struct {
	DeviceID  uint64
	Duration  float64
	Frequency float64
	Amplitude float64
}

// MarshalHaptics encodes a HapticsEvent into its fixed-size wire form.
func MarshalHaptics(h HapticsEvent) []byte {
	out := make([]byte, hapticsLen)
	binary.BigEndian.PutUint64(out[0:8], h.DeviceID)
	binary.BigEndian.PutUint64(out[8:16], float64bits(h.Duration))
	binary.BigEndian.PutUint64(out[16:24], float64bits(h.Frequency))
	binary.BigEndian.PutUint64(out[24:32], float64bits(h.Amplitude))
	return out
}

// ParseHaptics decodes a haptics substream payload.
func ParseHaptics(payload []byte) (HapticsEvent, error) {
	if len(payload) < hapticsLen {
		return HapticsEvent{}, fmt.Errorf("protocol: haptics packet too short (%d bytes)", len(payload))
	}
	return HapticsEvent{
		DeviceID:  binary.BigEndian.Uint64(payload[0:8]),
		Duration:  float64frombits(binary.BigEndian.Uint64(payload[8:16])),
		Frequency: float64frombits(binary.BigEndian.Uint64(payload[16:24])),
		Amplitude: float64frombits(binary.BigEndian.Uint64(payload[24:32])),
	}, nil
}
