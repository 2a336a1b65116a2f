package core

import (
	"fmt"
	"log"
	"time"

	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/protocol"
)

// Supervisor is the Lifecycle Supervisor: a retry loop running one
// Connection Session attempt at a time for as long as the client is alive
// and resumed.
//
// Grounded on the original connection_lifecycle_loop's outer retry shape
// (HUD message, attempt, sleep, repeat) and client/app.go's
// Connect/Disconnect methods for the "acquire a session, tear it down on
// any exit path" wrapping.
type Supervisor struct {
	ctx *Context
	cfg Config
}

// NewSupervisor returns a Supervisor ready to Run.
func NewSupervisor(ctx *Context, cfg Config) *Supervisor {
	return &Supervisor{ctx: ctx, cfg: cfg}
}

// Run blocks, attempting Connection Sessions until ctx.Alive() goes false.
// Each failed or completed attempt is followed by a ConnectionRetryInterval
// pause regardless of outcome, matching the original's fixed retry cadence
// rather than any backoff.
func (s *Supervisor) Run() {
	s.ctx.PostHUD(hud.UpdateHudMessage{Text: fmt.Sprintf("Searching for %s...", s.cfg.Hostname)})

	for s.ctx.Alive() {
		if s.ctx.Resumed() {
			if err := RunSession(s.ctx, s.cfg); err != nil {
				log.Printf("[supervisor] connection error: %v", err)
				s.ctx.PostHUD(hud.UpdateHudMessage{Text: fmt.Sprintf("Connection error: %v", err)})
			}
		}
		time.Sleep(protocol.ConnectionRetryInterval)
	}
}
