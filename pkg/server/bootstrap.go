package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nimburion/correlation/pkg/config"
	"github.com/nimburion/correlation/pkg/health"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/observability/metrics"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
	"github.com/nimburion/correlation/pkg/server/router/factory"
	"github.com/nimburion/correlation/pkg/version"
)

// Options defines inputs for building the HTTP servers. Only Config and
// Logger are required; everything else is created from Config when nil.
type Options struct {
	Config *config.Config
	Logger logger.Logger

	PublicRouter     router.Router
	ManagementRouter router.Router

	HealthRegistry  *health.Registry
	MetricsRegistry *metrics.Registry

	// GeneratorOptions inject clock and entropy into identifier generation.
	GeneratorOptions []requestid.Option
}

// HTTPServers groups the public and optional management servers.
type HTTPServers struct {
	Public     *PublicAPIServer
	Management *ManagementServer
}

// BuildHTTPServers constructs the servers described by opts.
func BuildHTTPServers(opts Options) (*HTTPServers, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	cfg := opts.Config

	if opts.MetricsRegistry == nil {
		opts.MetricsRegistry = metrics.NewRegistry()
	}
	if opts.PublicRouter == nil {
		r, err := factory.NewRouter(cfg.RouterType)
		if err != nil {
			return nil, fmt.Errorf("create public router: %w", err)
		}
		opts.PublicRouter = r
	}

	public, err := NewPublicAPIServer(cfg, opts.PublicRouter, opts.Logger, opts.MetricsRegistry, opts.GeneratorOptions...)
	if err != nil {
		return nil, err
	}
	servers := &HTTPServers{Public: public}
	if !cfg.Management.Enabled {
		return servers, nil
	}

	if opts.ManagementRouter == nil {
		r, err := factory.NewRouter(cfg.RouterType)
		if err != nil {
			return nil, fmt.Errorf("create management router: %w", err)
		}
		opts.ManagementRouter = r
	}
	if opts.HealthRegistry == nil {
		opts.HealthRegistry = health.NewRegistry()
	}
	probe, err := requestid.NewGenerator(requestid.Scheme(cfg.RequestID.Scheme), opts.GeneratorOptions...)
	if err != nil {
		return nil, fmt.Errorf("create readiness probe: %w", err)
	}
	checker := health.NewGeneratorChecker("requestid", probe)
	if cfg.RequestID.FallbackToUUID {
		fallback, err := requestid.NewGenerator(requestid.SchemeUUID, opts.GeneratorOptions...)
		if err != nil {
			return nil, fmt.Errorf("create readiness fallback probe: %w", err)
		}
		checker.WithFallback(fallback)
	}
	opts.HealthRegistry.Register(checker)

	servers.Management = NewManagementServer(
		cfg.Management,
		opts.ManagementRouter,
		opts.Logger,
		opts.HealthRegistry,
		opts.MetricsRegistry,
		version.Current(cfg.Service.Name),
	)
	return servers, nil
}

// RunHTTPServers starts every server and blocks until ctx is cancelled or
// one of them fails. A failure stops the others.
func RunHTTPServers(ctx context.Context, servers *HTTPServers, log logger.Logger) error {
	if servers == nil || servers.Public == nil {
		return errors.New("servers and public server are required")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverCount := 1
	if servers.Management != nil {
		serverCount = 2
	}

	errCh := make(chan error, serverCount)
	go func() { errCh <- servers.Public.Start(runCtx) }()
	if servers.Management != nil {
		go func() { errCh <- servers.Management.Start(runCtx) }()
	}

	var firstErr error
	for i := 0; i < serverCount; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			log.Error("server stopped with error", "error", err)
			cancel()
		}
	}
	return firstErr
}

// RunHTTPServersWithSignals runs servers until ctx is done or one of
// signals arrives. SIGINT and SIGTERM are used when signals is empty.
func RunHTTPServersWithSignals(ctx context.Context, servers *HTTPServers, log logger.Logger, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()
	return RunHTTPServers(ctx, servers, log)
}
