package crawl

import (
	"context"
	"time"
)

// FetchFunc fetches one URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetries is the number of retries after a failed fetch.
const DefaultRetries = 3

// ExponentialDelays returns n delays doubling from base: base, 2*base, 4*base...
func ExponentialDelays(n int, base time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := range n {
		delays = append(delays, base<<i)
	}
	return delays
}

// Backoff retries failed fetches. Attempt k+2 waits Delays[k] first, so an
// empty Delays means a single attempt.
type Backoff struct {
	Delays []time.Duration

	// OnRetry, if set, is called before each retry with the 1-based
	// number of the attempt about to run.
	OnRetry func(url string, attempt int, err error)
}

// Fetch calls fetch until it succeeds or the attempts run out, returning
// the last error. A done context ends the wait between attempts.
func (b Backoff) Fetch(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	html, err := fetch(ctx, url)
	for attempt, delay := range b.Delays {
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if b.OnRetry != nil {
			b.OnRetry(url, attempt+2, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
		html, err = fetch(ctx, url)
	}
	if err != nil {
		return "", err
	}
	return html, nil
}
