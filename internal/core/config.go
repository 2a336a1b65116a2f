package core

import "github.com/northfall-xr/headsetcore/internal/external"

// Config is everything the embedder supplies to wire a Connection Session
// against real (or, for cmd/headsetclient, trivial default) collaborators.
// None of it is persisted by this core beyond the hostname (internal/identity).
type Config struct {
	// Hostname is this client's Session Identity, announced in every
	// discovery beacon and shown in the Supervisor's initial HUD message.
	Hostname string
	// DeviceModel is a human-readable string shown on the host's side of
	// the connection, purely descriptive.
	DeviceModel string

	DefaultViewResolution [2]uint32
	SupportedRefreshRates []float64

	Decoder      external.DecoderSink
	AudioOutput  external.AudioOutputDevice
	AudioInput   external.AudioInputDevice
	Battery      external.BatteryGauge
	LocalIP      external.LocalIPQuery
	LogMirror    external.LogMirrorSource
}
