package upstream

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels recorded for every upstream call.
const (
	OutcomeSuccess        = "success"
	OutcomeEmpty          = "empty"
	OutcomeNotFound       = "not_found"
	OutcomeClientError    = "client_error"
	OutcomeServerError    = "server_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// MetricsRecorder records the result of upstream calls.
// It exists so tests can inject a recorder instead of Prometheus.
type MetricsRecorder interface {
	// RecordRequest records one upstream call for resource ("posts", "comments")
	// with its outcome and duration.
	RecordRequest(resource, outcome string, duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder using Prometheus metrics.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
// Collectors are registered once with the default registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "upstream_requests_total",
					Help: "Total number of upstream API requests by resource and outcome",
				},
				[]string{"resource", "outcome"},
			),
			duration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "upstream_request_duration_seconds",
					Help:    "Upstream API request duration in seconds",
					Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"resource"},
			),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (m *PrometheusMetrics) RecordRequest(resource, outcome string, duration time.Duration) {
	m.requests.WithLabelValues(resource, outcome).Inc()
	m.duration.WithLabelValues(resource).Observe(duration.Seconds())
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

// RecordRequest implements MetricsRecorder.
func (NoopMetrics) RecordRequest(string, string, time.Duration) {}
