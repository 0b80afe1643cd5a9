// Package prometheus exposes crawl metrics through the Prometheus client.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "couponcrawl"

// Metrics holds the collectors shared by the instrumented decorators.
type Metrics struct {
	FetchesTotal         *prometheus.CounterVec
	FetchDurationSeconds prometheus.Histogram
	FetchedBytesTotal    prometheus.Counter

	InsertsTotal      *prometheus.CounterVec
	ImageUpdatesTotal *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "fetch",
				Name:      "requests_total",
				Help:      "Total number of page fetches by status",
			},
			[]string{"status"},
		),
		FetchDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "fetch",
				Name:      "duration_seconds",
				Help:      "Duration of page fetches in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		FetchedBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "fetch",
				Name:      "bytes_total",
				Help:      "Total number of decoded bytes fetched",
			},
		),
		InsertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "store",
				Name:      "inserts_total",
				Help:      "Total number of course inserts by outcome",
			},
			[]string{"outcome"},
		),
		ImageUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "store",
				Name:      "image_updates_total",
				Help:      "Total number of image updates by outcome",
			},
			[]string{"outcome"},
		),
		gatherer: reg,
	}
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
