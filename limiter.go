package couponcrawl

import (
	"context"
	"time"
)

// RateLimiter spaces outbound requests. A single limiter is shared by every
// worker of a run so the remote origin sees one request stream.
type RateLimiter interface {
	// Acquire blocks until a request may be issued.
	// Returns an error if the context ends first.
	Acquire(ctx context.Context) error

	// TryAcquire waits at most timeout for a request slot.
	// Returns false, without consuming a slot, if none frees up in time.
	TryAcquire(timeout time.Duration) bool
}
