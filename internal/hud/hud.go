// Package hud is the replacement for the teacher's Wails event bridge: a
// typed, mutex-protected event queue that a GUI/HUD layer (an external
// collaborator, out of scope here) drains on its own schedule. Producers
// never block on it.
package hud

// Event is a marker interface implemented by every concrete HUD event type
// below. It carries no methods beyond the marker because the queue never
// inspects event contents — only the consumer cares what's inside.
type Event interface {
	isHUDEvent()
}

// UpdateHudMessage replaces the full text shown on the headset's status
// overlay, e.g. during Discovery or after a handshake failure.
type UpdateHudMessage struct {
	Text string
}

// StreamingStarted is emitted once streaming is live, carrying the values
// negotiated during the handshake that a HUD or telemetry layer might want
// to display or log.
type StreamingStarted struct {
	ViewResolution  [2]uint32
	RefreshRateHint float64
	GameAudioRate   uint32
}

// StreamingStopped is emitted the moment the streaming phase tears down,
// before workers have necessarily finished joining.
type StreamingStopped struct{}

// Haptics carries one haptics pulse forwarded from the host, for a HUD or
// external haptics collaborator to render.
type Haptics struct {
	DeviceID  uint64
	Duration  float64
	Frequency float64
	Amplitude float64
}

func (UpdateHudMessage) isHUDEvent()  {}
func (StreamingStarted) isHUDEvent()  {}
func (StreamingStopped) isHUDEvent()  {}
func (Haptics) isHUDEvent()           {}
