// Package metrics provides the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry manages Prometheus metrics registration and exposure.
// Every Registry owns its own HTTP and request ID collectors, so several
// registries can live in one process.
type Registry struct {
	registry *prometheus.Registry

	// HTTP holds the request duration, count and in-flight collectors.
	HTTP *HTTPMetrics
	// RequestIDs counts identifier generation outcomes.
	RequestIDs *RequestIDMetrics
}

// NewRegistry creates a new metrics registry with default collectors:
// HTTP request metrics, request ID counters and Go runtime/process metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:   reg,
		HTTP:       NewHTTPMetrics(),
		RequestIDs: NewRequestIDMetrics(),
	}
	r.HTTP.register(reg)
	r.RequestIDs.register(reg)

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return r
}

// Register registers a custom Prometheus collector.
func (r *Registry) Register(collector prometheus.Collector) error {
	return r.registry.Register(collector)
}

// MustRegister registers collectors and panics on error.
func (r *Registry) MustRegister(collectors ...prometheus.Collector) {
	r.registry.MustRegister(collectors...)
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
// The management server mounts it at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
