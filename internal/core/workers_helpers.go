package core

import (
	"context"
	"time"

	"github.com/northfall-xr/headsetcore/internal/external"
)

// timeoutContext derives a bounded child of the streaming-scoped context,
// for external calls that take a context but have no timeout of their own
// (the log mirror's Recv). The caller must invoke the returned cancel once
// the call returns, or its timer leaks until the streaming context itself
// is cancelled.
func timeoutContext(ctx *Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.StreamingContext(), timeout)
}

// sleepBounded sleeps for d or until the streaming context is cancelled,
// whichever comes first — keeps the control-send worker's idle cadence
// bounded by the same suspension-point discipline as every blocking
// receive in this core.
func sleepBounded(ctx *Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.StreamingContext().Done():
	}
}

func severityString(s external.Severity) string {
	switch s {
	case external.SeverityDebug:
		return "debug"
	case external.SeverityInfo:
		return "info"
	case external.SeverityWarn:
		return "warn"
	case external.SeverityError:
		return "error"
	default:
		return "info"
	}
}
