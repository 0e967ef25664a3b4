package metrics

import "github.com/prometheus/client_golang/prometheus"

// RequestIDMetrics counts generated identifiers per scheme and generation
// failures per scheme and reason.
type RequestIDMetrics struct {
	generated *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewRequestIDMetrics creates unregistered request ID collectors.
func NewRequestIDMetrics() *RequestIDMetrics {
	return &RequestIDMetrics{
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestid_generated_total",
				Help: "Total number of request identifiers assigned",
			},
			[]string{"scheme"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "requestid_generation_failures_total",
				Help: "Total number of failed request identifier generations",
			},
			[]string{"scheme", "reason"},
		),
	}
}

func (m *RequestIDMetrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.generated, m.failures)
}

// IncGenerated counts one assigned identifier.
func (m *RequestIDMetrics) IncGenerated(scheme string) {
	m.generated.WithLabelValues(scheme).Inc()
}

// IncFailure counts one failed generation.
func (m *RequestIDMetrics) IncFailure(scheme, reason string) {
	m.failures.WithLabelValues(scheme, reason).Inc()
}
