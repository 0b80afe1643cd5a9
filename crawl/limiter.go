package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/couponcrawl"
	"golang.org/x/time/rate"
)

var _ couponcrawl.RateLimiter = (*Limiter)(nil)

// Limiter is a token bucket shared by every worker of a run.
// One token is released per interval; up to burst tokens may accumulate
// while the pipeline is idle.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter releasing one request per interval.
// A burst below 1 is treated as 1. A non-positive interval disables limiting.
func NewLimiter(interval time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Acquire blocks until a token is available.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// TryAcquire waits at most timeout for a token.
// The token is not consumed when the wait would exceed timeout.
func (l *Limiter) TryAcquire(timeout time.Duration) bool {
	if timeout <= 0 {
		return l.limiter.Allow()
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return l.limiter.Wait(ctx) == nil
}
