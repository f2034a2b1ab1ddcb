package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics holds Prometheus metrics for the request dispatcher.
type DispatchMetrics struct {
	RequestsTotal *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	QueueDepth    prometheus.Gauge
}

// NewDispatchMetrics creates and registers dispatcher metrics on the given registry.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_requests_total",
			Help:      "Total number of dispatched requests, by kind and result code.",
		}, []string{"kind", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent by the worker on a request, in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"kind"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dispatch_queue_depth",
			Help:      "Number of requests waiting for the worker.",
		}),
	}

	reg.MustRegister(m.RequestsTotal, m.Duration, m.QueueDepth)
	return m
}

// Observe records one completed request. A nil receiver is a no-op.
func (m *DispatchMetrics) Observe(kind, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if code == "" {
		code = "ok"
	}
	m.RequestsTotal.WithLabelValues(kind, code).Inc()
	m.Duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// SetQueueDepth updates the queue gauge. A nil receiver is a no-op.
func (m *DispatchMetrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}
