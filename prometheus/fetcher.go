package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/couponcrawl"
)

var _ couponcrawl.Fetcher = (*InstrumentedFetcher)(nil)

// InstrumentedFetcher records fetch counts, durations and sizes.
type InstrumentedFetcher struct {
	next    couponcrawl.Fetcher
	metrics *Metrics
}

// NewInstrumentedFetcher wraps next with metrics collection.
func NewInstrumentedFetcher(next couponcrawl.Fetcher, metrics *Metrics) *InstrumentedFetcher {
	return &InstrumentedFetcher{next: next, metrics: metrics}
}

// Fetch delegates and records the attempt with its duration and size.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.metrics.FetchDurationSeconds.Observe(time.Since(begin).Seconds())
	if err != nil {
		f.metrics.FetchesTotal.WithLabelValues("error").Inc()
		return "", err
	}
	f.metrics.FetchesTotal.WithLabelValues("ok").Inc()
	f.metrics.FetchedBytesTotal.Add(float64(len(html)))
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *InstrumentedFetcher) Close() error {
	return f.next.Close()
}
