package external

import (
	"context"
	"net"
	"time"
)

// NoopDecoder always accepts every NAL unit and does nothing with it. It
// exists so cmd/headsetclient can run the full lifecycle without a real
// video pipeline attached.
type NoopDecoder struct{}

func (NoopDecoder) InitConfig(VideoBuffering)  {}
func (NoopDecoder) Configure(string)           {}
func (NoopDecoder) PushNAL(int64, []byte) bool { return true }
func (NoopDecoder) Close()                     {}

// SilentAudioOutput discards everything written to it.
type SilentAudioOutput struct{}

func (SilentAudioOutput) Open(int, int) error { return nil }

func (SilentAudioOutput) PlayLoop(ctx context.Context, source <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-source:
			if !ok {
				return nil
			}
		}
	}
}

func (SilentAudioOutput) Close() error { return nil }

// NoMicrophone reports itself disabled by never producing input; RecordLoop
// simply blocks until cancelled.
type NoMicrophone struct{}

func (NoMicrophone) Open(int, int) error { return nil }

func (NoMicrophone) RecordLoop(ctx context.Context, sink chan<- []byte) error {
	<-ctx.Done()
	return nil
}

func (NoMicrophone) Close() error { return nil }

// UnsupportedBattery reports no battery on every call, appropriate for a
// desktop demo host.
type UnsupportedBattery struct{}

func (UnsupportedBattery) Status() (int, bool, bool) { return 0, false, false }

// SystemLocalIP resolves the machine's outbound LAN address by asking the
// kernel which interface would be used to reach a public address, without
// sending any traffic.
type SystemLocalIP struct{}

func (SystemLocalIP) LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "0.0.0.0"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "0.0.0.0"
	}
	return addr.IP.String()
}

// DisabledLogMirror turns log mirroring off entirely.
type DisabledLogMirror struct{}

func (DisabledLogMirror) Enabled() bool { return false }

func (DisabledLogMirror) Recv(ctx context.Context) (string, Severity, bool) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Hour):
	}
	return "", SeverityInfo, false
}
