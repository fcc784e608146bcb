package services

import (
	"context"
	"time"
)

// detach returns a context for an outbound paid call. Once issued the call is
// not cancelled when the client disconnects; only the timeout ends it.
// Request-scoped values such as the Sentry hub are kept.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
