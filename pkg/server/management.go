package server

import (
	"net/http"

	"github.com/nimburion/correlation/pkg/config"
	"github.com/nimburion/correlation/pkg/health"
	"github.com/nimburion/correlation/pkg/middleware/recovery"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/observability/metrics"
	"github.com/nimburion/correlation/pkg/server/router"
	"github.com/nimburion/correlation/pkg/version"
)

// ManagementServer serves operational endpoints on a separate port:
//   - /health: liveness, always 200
//   - /ready: readiness, 503 when a health check is unhealthy
//   - /metrics: Prometheus exposition
//   - /version: build metadata
type ManagementServer struct {
	*Server
	liveness        *health.PingChecker
	healthRegistry  *health.Registry
	metricsRegistry *metrics.Registry
	info            version.Info
}

// NewManagementServer creates the management server and registers its endpoints.
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
	metricsRegistry *metrics.Registry,
	info version.Info,
) *ManagementServer {
	r.Use(recovery.Recovery(log))

	s := &ManagementServer{
		Server:          NewServer(Config{Port: cfg.Port}, r, log),
		liveness:        health.NewPingChecker("liveness"),
		healthRegistry:  healthRegistry,
		metricsRegistry: metricsRegistry,
		info:            info,
	}

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/version", s.handleVersion)

	return s
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, s.liveness.Check(c.Request().Context()))
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.Serving() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	s.metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *ManagementServer) handleVersion(c router.Context) error {
	return c.JSON(http.StatusOK, s.info)
}
