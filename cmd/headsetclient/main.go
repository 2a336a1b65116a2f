// Command headsetclient is reference wiring for internal/core: it hooks up
// the trivial default collaborators (internal/external) and runs the
// Lifecycle Supervisor until interrupted, so the connection lifecycle can
// be exercised end to end against a test host without real headset
// hardware attached.
//
// Grounded on client/main.go's bootstrap shape (flag/env handling, then
// handing off to the long-running app), minus the Wails GUI bootstrap,
// since the HUD here is a plain event queue an embedder drains on its own.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/northfall-xr/headsetcore/internal/core"
	"github.com/northfall-xr/headsetcore/internal/external"
	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/identity"
)

func main() {
	hostname := identity.LoadOrCreate()
	log.Printf("[main] starting as %q", hostname)

	ctx := core.NewContext()
	cfg := core.Config{
		Hostname:              hostname,
		DeviceModel:           "headsetcore-reference",
		DefaultViewResolution: [2]uint32{1832, 1920},
		SupportedRefreshRates: []float64{60, 72, 90, 120},

		Decoder:     external.NoopDecoder{},
		AudioOutput: external.SilentAudioOutput{},
		AudioInput:  external.NoMicrophone{},
		Battery:     external.UnsupportedBattery{},
		LocalIP:     external.SystemLocalIP{},
		LogMirror:   external.DisabledLogMirror{},
	}

	go drainHUD(ctx.HUD())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Print("[main] shutting down")
		ctx.SetAlive(false)
	}()

	core.NewSupervisor(ctx, cfg).Run()
}

// drainHUD logs every HUD event as it arrives. A real embedder would
// render these on the headset's status overlay instead.
func drainHUD(q *hud.Queue) {
	for range q.Wait() {
		for _, event := range q.Drain() {
			switch e := event.(type) {
			case hud.UpdateHudMessage:
				log.Printf("[hud] %s", e.Text)
			case hud.StreamingStarted:
				log.Printf("[hud] streaming started: %dx%d @ %.0fHz", e.ViewResolution[0], e.ViewResolution[1], e.RefreshRateHint)
			case hud.StreamingStopped:
				log.Print("[hud] streaming stopped")
			case hud.Haptics:
				log.Printf("[hud] haptics: device=%d amplitude=%.2f", e.DeviceID, e.Amplitude)
			}
		}
	}
}
