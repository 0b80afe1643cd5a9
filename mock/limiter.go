package mock

import (
	"context"
	"time"

	"github.com/fwojciec/couponcrawl"
)

var _ couponcrawl.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of couponcrawl.RateLimiter.
type RateLimiter struct {
	AcquireFn    func(ctx context.Context) error
	TryAcquireFn func(timeout time.Duration) bool
}

func (l *RateLimiter) Acquire(ctx context.Context) error {
	return l.AcquireFn(ctx)
}

func (l *RateLimiter) TryAcquire(timeout time.Duration) bool {
	return l.TryAcquireFn(timeout)
}
