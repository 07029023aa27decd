// Package metrics exposes Prometheus collectors for the order proxy.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes
const (
	OutcomePreflight      = "preflight"
	OutcomeRejected       = "rejected"
	OutcomeConfigError    = "config_error"
	OutcomeForwarded      = "forwarded"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomeInternalError  = "internal_error"
)

// Recorder receives proxy events
type Recorder interface {
	RecordOutcome(outcome string)
	RecordUpstream(statusCode int, elapsed time.Duration)
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RecordOutcome(string)              {}
func (NopRecorder) RecordUpstream(int, time.Duration) {}

// Metrics holds the proxy collectors and the registry they belong to
type Metrics struct {
	registry          *prometheus.Registry
	requestsTotal     *prometheus.CounterVec
	upstreamResponses *prometheus.CounterVec
	upstreamDuration  prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_proxy",
			Name:      "requests_total",
			Help:      "Inbound requests by outcome.",
		}, []string{"outcome"}),
		upstreamResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_proxy",
			Name:      "upstream_responses_total",
			Help:      "Responses received from the order API by status code.",
		}, []string{"status"}),
		upstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "order_proxy",
			Name:      "upstream_duration_seconds",
			Help:      "Time spent waiting on the order API.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.requestsTotal, m.upstreamResponses, m.upstreamDuration)
	return m
}

// RecordOutcome counts one inbound request
func (m *Metrics) RecordOutcome(outcome string) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstream counts one upstream response and its latency
func (m *Metrics) RecordUpstream(statusCode int, elapsed time.Duration) {
	m.upstreamResponses.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	m.upstreamDuration.Observe(elapsed.Seconds())
}

// Registry returns the registry backing these collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
