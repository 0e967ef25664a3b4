package server

import (
	"fmt"
	"net/http"

	"github.com/nimburion/correlation/pkg/config"
	"github.com/nimburion/correlation/pkg/middleware/logging"
	mwmetrics "github.com/nimburion/correlation/pkg/middleware/metrics"
	"github.com/nimburion/correlation/pkg/middleware/recovery"
	"github.com/nimburion/correlation/pkg/middleware/registry"
	"github.com/nimburion/correlation/pkg/middleware/requestid"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/observability/metrics"
	reqid "github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
)

// PublicAPIServer wraps Server for application traffic.
type PublicAPIServer struct {
	*Server
	plugins *registry.Registry
}

// HelloResponse is the body of GET /hello.
type HelloResponse struct {
	Message   string `json:"message"`
	Service   string `json:"service"`
	RequestID string `json:"request_id"`
}

// NewPublicAPIServer builds the public server. The plugin pipeline is, in order:
//  1. requestid - assigns X-Request-ID before anything else runs
//  2. recovery - turns panics into 500s that still carry the identifier
//  3. logging - one access-log entry per request (optional)
//  4. metrics - Prometheus request metrics
//
// genOpts inject clock and entropy into the identifier generators.
func NewPublicAPIServer(cfg *config.Config, r router.Router, log logger.Logger, reg *metrics.Registry, genOpts ...reqid.Option) (*PublicAPIServer, error) {
	rid, err := requestid.New(
		requestid.Config{
			Scheme:         reqid.Scheme(cfg.RequestID.Scheme),
			FallbackToUUID: cfg.RequestID.FallbackToUUID,
		},
		requestid.WithGeneratorOptions(genOpts...),
		requestid.WithLogger(log),
		requestid.WithRecorder(reg.RequestIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("create requestid plugin: %w", err)
	}

	plugins := registry.New()
	plugins.Register(rid)
	plugins.Register(registry.Func("recovery", "", recovery.Recovery(log)))
	if cfg.Observability.RequestLogging {
		plugins.Register(registry.Func("logging", "", logging.WithConfig(log, logging.Config{
			Enabled:              true,
			ExcludedPathPrefixes: []string{"/health"},
			Service:              cfg.Service.Name,
		})))
	}
	plugins.Register(registry.Func("metrics", "", mwmetrics.Metrics(reg.HTTP)))
	plugins.Apply(r)

	service := cfg.Service.Name
	r.GET("/hello", func(c router.Context) error {
		return c.JSON(http.StatusOK, HelloResponse{
			Message:   "hello",
			Service:   service,
			RequestID: requestid.GetRequestID(c.Request().Context()),
		})
	})
	r.GET("/health", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	return &PublicAPIServer{
		Server: NewServer(Config{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}, r, log),
		plugins: plugins,
	}, nil
}

// Plugins lists the installed pipeline plugins in execution order.
func (s *PublicAPIServer) Plugins() []registry.Key {
	return s.plugins.Keys()
}
