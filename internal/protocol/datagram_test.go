package protocol

import "testing"

func TestMarshalParseDatagramRoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	raw := MarshalDatagram(SubstreamAudio, 42, payload, nil)

	id, seq, got, err := ParseDatagram(raw)
	if err != nil {
		t.Fatalf("ParseDatagram: %v", err)
	}
	if id != SubstreamAudio {
		t.Errorf("id = %v, want %v", id, SubstreamAudio)
	}
	if seq != 42 {
		t.Errorf("seq = %d, want 42", seq)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %v, want %v", got, payload)
	}
}

func TestParseDatagramTooShort(t *testing.T) {
	if _, _, _, err := ParseDatagram([]byte{1, 2}); err == nil {
		t.Error("expected error for short datagram, got nil")
	}
}

func TestMarshalParseVideoPacketRoundTrip(t *testing.T) {
	h := VideoHeader{TimestampNs: 1234567890, IsIDR: true}
	nal := []byte{0xde, 0xad, 0xbe, 0xef}
	raw := MarshalVideoPacket(h, nal, nil)

	gotH, gotNAL, err := ParseVideoPacket(raw)
	if err != nil {
		t.Fatalf("ParseVideoPacket: %v", err)
	}
	if gotH != h {
		t.Errorf("header = %+v, want %+v", gotH, h)
	}
	if string(gotNAL) != string(nal) {
		t.Errorf("nal = %v, want %v", gotNAL, nal)
	}
}

func TestMarshalParseHapticsRoundTrip(t *testing.T) {
	h := HapticsEvent{DeviceID: 7, Duration: 0.25, Frequency: 180, Amplitude: 0.5}
	raw := MarshalHaptics(h)

	got, err := ParseHaptics(raw)
	if err != nil {
		t.Fatalf("ParseHaptics: %v", err)
	}
	if got != h {
		t.Errorf("haptics = %+v, want %+v", got, h)
	}
}

func TestParseHapticsTooShort(t *testing.T) {
	if _, err := ParseHaptics(make([]byte, 10)); err == nil {
		t.Error("expected error for short haptics packet, got nil")
	}
}
