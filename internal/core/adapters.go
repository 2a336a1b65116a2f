package core

import (
	"github.com/northfall-xr/headsetcore/internal/external"
	"github.com/northfall-xr/headsetcore/internal/negotiate"
)

// toExternalBuffering narrows the negotiated video settings down to exactly
// what the decoder collaborator interface needs.
func toExternalBuffering(v negotiate.VideoSettings) external.VideoBuffering {
	return external.VideoBuffering{
		MaxBufferingFrames:     v.MaxBufferingFrames,
		BufferingHistoryWeight: v.BufferingHistoryWeight,
		CodecOptions:           v.CodecOptions,
	}
}
