package negotiate

import (
	"reflect"
	"testing"
)

func TestNegotiateEmptyBlobsYieldDefaults(t *testing.T) {
	settings, values, err := Negotiate(nil, nil)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if !reflect.DeepEqual(settings, DefaultSettings()) {
		t.Errorf("settings = %+v, want defaults", settings)
	}
	if values.RefreshRateHint != 60 {
		t.Errorf("RefreshRateHint = %v, want 60", values.RefreshRateHint)
	}
}

func TestNegotiateSessionBlobOverridesOnlyGivenFields(t *testing.T) {
	session := []byte(`{"connection":{"stream_port":7777},"audio":{"microphone_enabled":false}}`)
	settings, _, err := Negotiate(session, nil)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if settings.Connection.StreamPort != 7777 {
		t.Errorf("StreamPort = %d, want 7777", settings.Connection.StreamPort)
	}
	if settings.Connection.PacketSize != DefaultSettings().Connection.PacketSize {
		t.Errorf("PacketSize changed despite not being in the blob: got %d", settings.Connection.PacketSize)
	}
	if settings.Audio.MicrophoneEnabled {
		t.Error("MicrophoneEnabled = true, want false")
	}
	if !settings.Audio.GameAudioEnabled {
		t.Error("GameAudioEnabled changed despite not being in the blob")
	}
}

func TestNegotiateMalformedSessionBlobErrors(t *testing.T) {
	if _, _, err := Negotiate([]byte("not json"), nil); err == nil {
		t.Error("expected error for malformed session blob, got nil")
	}
}

func TestNegotiateNegotiatedBlobPerFieldFallback(t *testing.T) {
	negotiated := []byte(`{"view_resolution":[1832,1920],"refresh_rate_hint":"bogus"}`)
	_, values, err := Negotiate(nil, negotiated)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if values.ViewResolution != [2]uint32{1832, 1920} {
		t.Errorf("ViewResolution = %v, want [1832 1920]", values.ViewResolution)
	}
	if values.RefreshRateHint != 60 {
		t.Errorf("RefreshRateHint = %v, want fallback 60 for a bad type", values.RefreshRateHint)
	}
	if values.GameAudioSampleRate != 44100 {
		t.Errorf("GameAudioSampleRate = %v, want fallback 44100", values.GameAudioSampleRate)
	}
}

func TestNegotiateMalformedNegotiatedBlobFallsBackWholesale(t *testing.T) {
	_, values, err := Negotiate(nil, []byte("not json"))
	if err != nil {
		t.Fatalf("Negotiate returned error for malformed negotiated blob, want nil: %v", err)
	}
	if values != defaultNegotiatedValues() {
		t.Errorf("values = %+v, want defaults", values)
	}
}
