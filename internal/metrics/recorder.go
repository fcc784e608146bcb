package metrics

import (
	"context"
	"time"
)

// Recorder is the metrics surface used by handlers and services
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordProviderCall(ctx context.Context, provider, operation string, duration time.Duration, success bool)
	RecordTokenUsage(ctx context.Context, provider, model string, inputTokens, outputTokens int)
	RecordRenderBytes(ctx context.Context, bytes int64)
}

var (
	_ Recorder = (*Client)(nil)
	_ Recorder = (*SentryMetrics)(nil)
)

// Fanout forwards every record to each wrapped recorder
type Fanout []Recorder

// Combine returns a Recorder that writes to all non-nil recorders
func Combine(recorders ...Recorder) Fanout {
	var out Fanout
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Fanout) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range f {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (f Fanout) RecordProviderCall(ctx context.Context, provider, operation string, duration time.Duration, success bool) {
	for _, r := range f {
		r.RecordProviderCall(ctx, provider, operation, duration, success)
	}
}

func (f Fanout) RecordTokenUsage(ctx context.Context, provider, model string, inputTokens, outputTokens int) {
	for _, r := range f {
		r.RecordTokenUsage(ctx, provider, model, inputTokens, outputTokens)
	}
}

func (f Fanout) RecordRenderBytes(ctx context.Context, bytes int64) {
	for _, r := range f {
		r.RecordRenderBytes(ctx, bytes)
	}
}
