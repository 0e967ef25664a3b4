package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks request duration, count and concurrency.
// Labels: method, path, status.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics creates unregistered HTTP collectors.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
	}
}

func (m *HTTPMetrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.duration, m.total, m.inFlight)
}

// Record updates the duration histogram and request counter.
func (m *HTTPMetrics) Record(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.duration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
	m.total.WithLabelValues(method, path, statusStr).Inc()
}

// IncrementInFlight increments the in-flight requests gauge.
func (m *HTTPMetrics) IncrementInFlight() {
	m.inFlight.Inc()
}

// DecrementInFlight decrements the in-flight requests gauge.
func (m *HTTPMetrics) DecrementInFlight() {
	m.inFlight.Dec()
}
