// Package metrics collects Prometheus metrics for the synchronization layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the metrics interface the synchronizers report through.
type Recorder interface {
	RecordFetchSuccess(domain string)
	RecordFetchFailure(domain, reason string)
	RecordStaleDiscard(domain string)
	RecordFetchLatency(domain string, duration time.Duration)
	RecordWrite(domain, operation string)
}

// Collector implements Recorder on Prometheus.
type Collector struct {
	fetchSuccess *prometheus.CounterVec
	fetchFail    *prometheus.CounterVec
	staleDiscard *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	writes       *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outly_fetch_success_total",
			Help: "Successful domain fetches.",
		}, []string{"domain"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outly_fetch_fail_total",
			Help: "Failed domain fetches, by error kind.",
		}, []string{"domain", "reason"}),
		staleDiscard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outly_fetch_discarded_stale_total",
			Help: "Fetch completions discarded because a newer request was issued.",
		}, []string{"domain"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "outly_fetch_latency_seconds",
			Help:    "Domain fetch latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"domain"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outly_write_total",
			Help: "Write operations issued, by domain and operation.",
		}, []string{"domain", "operation"}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.staleDiscard,
		c.fetchLatency,
		c.writes,
	)
	return c
}

func (c *Collector) RecordFetchSuccess(domain string) {
	c.fetchSuccess.WithLabelValues(domain).Inc()
}

func (c *Collector) RecordFetchFailure(domain, reason string) {
	c.fetchFail.WithLabelValues(domain, reason).Inc()
}

func (c *Collector) RecordStaleDiscard(domain string) {
	c.staleDiscard.WithLabelValues(domain).Inc()
}

func (c *Collector) RecordFetchLatency(domain string, duration time.Duration) {
	c.fetchLatency.WithLabelValues(domain).Observe(duration.Seconds())
}

func (c *Collector) RecordWrite(domain, operation string) {
	c.writes.WithLabelValues(domain, operation).Inc()
}

// Noop discards all metrics. Used in tests.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) RecordFetchSuccess(string)                {}
func (Noop) RecordFetchFailure(string, string)        {}
func (Noop) RecordStaleDiscard(string)                {}
func (Noop) RecordFetchLatency(string, time.Duration) {}
func (Noop) RecordWrite(string, string)               {}
