package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records the audit chain metrics.
type Collector struct {
	registry *prometheus.Registry

	verifications    *prometheus.CounterVec
	verifyDuration   prometheus.Histogram
	chainLength      prometheus.Gauge
	lastVerification prometheus.Gauge
}

// NewCollector creates a collector bound to registry. A nil registry
// gets a fresh one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vantage",
			Subsystem: "audit",
			Name:      "verifications_total",
			Help:      "Chain verification runs by result.",
		}, []string{"result"}),
		verifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vantage",
			Subsystem: "audit",
			Name:      "verification_duration_seconds",
			Help:      "Time spent walking the audit chain.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1.0, 5.0, 30.0},
		}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vantage",
			Subsystem: "audit",
			Name:      "chain_length",
			Help:      "Number of events in the audit chain at last verification.",
		}),
		lastVerification: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vantage",
			Subsystem: "audit",
			Name:      "last_verification_timestamp_seconds",
			Help:      "Unix time of the last verification run.",
		}),
	}

	registry.MustRegister(
		c.verifications,
		c.verifyDuration,
		c.chainLength,
		c.lastVerification,
	)
	return c
}

// RecordVerification records one verification run.
func (c *Collector) RecordVerification(valid bool, checked int, duration time.Duration) {
	result := "valid"
	if !valid {
		result = "broken"
	}
	c.verifications.WithLabelValues(result).Inc()
	c.verifyDuration.Observe(duration.Seconds())
	c.chainLength.Set(float64(checked))
	c.lastVerification.SetToCurrentTime()
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
