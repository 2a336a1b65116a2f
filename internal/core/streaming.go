package core

import (
	"sync"

	"github.com/northfall-xr/headsetcore/internal/hud"
	"github.com/northfall-xr/headsetcore/internal/protocol"
)

// runStreaming performs §4.4: publish the decoder config, subscribe/request
// every stream endpoint, flip the commit point, spawn all seven workers,
// block until something fires the disconnect notifier, then tear down.
//
// Every step before ctx.SetStreaming(true) can fail; nothing after it can,
// by construction — mirrors connection.rs's own comment to that effect at
// the same call site.
func runStreaming(ctx *Context, cfg Config, c *committedHandshake, notifier <-chan struct{}) {
	if cfg.Decoder != nil {
		cfg.Decoder.InitConfig(toExternalBuffering(c.effective.Video))
	}

	videoRecv := c.streamSocket.Subscribe(protocol.SubstreamVideo)
	gameAudioRecv := c.streamSocket.Subscribe(protocol.SubstreamAudio)
	hapticsRecv := c.streamSocket.Subscribe(protocol.SubstreamHaptics)
	trackingSend := c.streamSocket.RequestSender(protocol.SubstreamTracking)
	statsSend := c.streamSocket.RequestSender(protocol.SubstreamStatistics)

	ctx.SetStreaming(true)
	ctx.SetControlSender(c.controlSender)
	ctx.setTrackingSender(trackingSend)
	ctx.setStatisticsSender(statsSend)
	ctx.setDecoder(cfg.Decoder)

	if cfg.LogMirror != nil && cfg.LogMirror.Enabled() {
		ctx.setLogMirror(c.controlSender)
	}

	ctx.PostHUD(hud.StreamingStarted{
		ViewResolution:  c.values.ViewResolution,
		RefreshRateHint: c.values.RefreshRateHint,
		GameAudioRate:   c.values.GameAudioSampleRate,
	})

	var wg sync.WaitGroup
	spawn := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	spawn(func() { videoReceiveWorker(ctx, cfg, c, videoRecv) })
	spawn(func() { gameAudioWorker(ctx, cfg, c, gameAudioRecv) })
	spawn(func() { microphoneWorker(ctx, cfg, c) })
	spawn(func() { hapticsReceiveWorker(ctx, hapticsRecv) })
	spawn(func() { controlSendWorker(ctx, cfg) })
	spawn(func() { controlReceiveWorker(ctx, cfg, c) })
	spawn(func() { streamPumpWorker(ctx, c) })

	<-notifier

	ctx.SetStreaming(false)
	ctx.ClearControlSender()
	ctx.clearLogMirror()
	ctx.clearOutboundSlots()
	ctx.clearDecoder()
	ctx.PostHUD(hud.StreamingStopped{})
	if cfg.Decoder != nil {
		cfg.Decoder.Close()
	}

	wg.Wait()
}
