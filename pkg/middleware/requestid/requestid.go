// Package requestid assigns a fresh correlation identifier to every request
// and exposes it as the X-Request-ID response header.
package requestid

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nimburion/correlation/pkg/middleware"
	"github.com/nimburion/correlation/pkg/middleware/registry"
	"github.com/nimburion/correlation/pkg/observability/logger"
	reqid "github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
)

// RequestIDHeader is the HTTP header name for request ID.
const RequestIDHeader = "X-Request-ID"

// PluginName is the registry name shared by every instance of this plugin.
const PluginName = "requestid"

// Failure reasons reported to the Recorder.
const (
	ReasonClockUnavailable   = "clock_unavailable"
	ReasonEntropyUnavailable = "entropy_unavailable"
	ReasonUnknown            = "unknown"
)

// Config selects the identifier scheme. It is comparable, and equal configs
// produce equal registry keys.
type Config struct {
	Scheme reqid.Scheme
	// FallbackToUUID assigns a UUID when the ULID clock is unavailable.
	FallbackToUUID bool
}

// DefaultConfig selects ULID without fallback.
func DefaultConfig() Config {
	return Config{Scheme: reqid.DefaultScheme}
}

// Recorder receives generation outcomes. metrics.RequestIDMetrics implements it.
type Recorder interface {
	IncGenerated(scheme string)
	IncFailure(scheme, reason string)
}

// Middleware is the request identifier plugin.
type Middleware struct {
	cfg       Config
	generator reqid.Generator
	fallback  reqid.Generator
	log       logger.Logger
	recorder  Recorder
	genOpts   []reqid.Option
}

// Option configures a Middleware.
type Option func(*Middleware)

// WithGeneratorOptions passes clock and entropy options to the generators.
func WithGeneratorOptions(opts ...reqid.Option) Option {
	return func(m *Middleware) {
		m.genOpts = append(m.genOpts, opts...)
	}
}

// WithLogger sets the logger used to report generation failures.
func WithLogger(log logger.Logger) Option {
	return func(m *Middleware) {
		m.log = log
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Middleware) {
		m.recorder = r
	}
}

// New builds the plugin for cfg. An empty scheme selects the default.
func New(cfg Config, opts ...Option) (*Middleware, error) {
	scheme, err := reqid.ParseScheme(string(cfg.Scheme))
	if err != nil {
		return nil, err
	}
	cfg.Scheme = scheme

	m := &Middleware{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.generator, err = reqid.NewGenerator(cfg.Scheme, m.genOpts...); err != nil {
		return nil, err
	}
	if cfg.FallbackToUUID && cfg.Scheme != reqid.SchemeUUID {
		if m.fallback, err = reqid.NewGenerator(reqid.SchemeUUID, m.genOpts...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Config returns the normalized configuration.
func (m *Middleware) Config() Config {
	return m.cfg
}

// Key identifies the plugin by scheme and fallback policy.
func (m *Middleware) Key() registry.Key {
	seed := string(m.cfg.Scheme)
	if m.fallback != nil {
		seed += "+fallback"
	}
	return registry.Key{Name: PluginName, Seed: seed}
}

// Assign generates one identifier and sets it on header, replacing any prior
// value. On error header is left untouched.
func (m *Middleware) Assign(header http.Header) (string, error) {
	id, err := m.generate()
	if err != nil {
		return "", err
	}
	header.Set(RequestIDHeader, id)
	return id, nil
}

func (m *Middleware) generate() (string, error) {
	scheme := string(m.cfg.Scheme)
	id, err := m.generator.Generate()
	if err == nil {
		m.generated(scheme)
		return id, nil
	}
	m.failed(scheme, err)

	if m.fallback == nil || !errors.Is(err, reqid.ErrClockUnavailable) {
		return "", err
	}
	id, ferr := m.fallback.Generate()
	if ferr != nil {
		m.failed(string(reqid.SchemeUUID), ferr)
		return "", fmt.Errorf("uuid fallback: %w", ferr)
	}
	if m.log != nil {
		m.log.Warn("request id clock unavailable, assigned uuid", "error", err)
	}
	m.generated(string(reqid.SchemeUUID))
	return id, nil
}

func (m *Middleware) generated(scheme string) {
	if m.recorder != nil {
		m.recorder.IncGenerated(scheme)
	}
}

func (m *Middleware) failed(scheme string, err error) {
	if m.recorder != nil {
		m.recorder.IncFailure(scheme, Reason(err))
	}
}

// Reason maps a generation error to its metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, reqid.ErrClockUnavailable):
		return ReasonClockUnavailable
	case errors.Is(err, reqid.ErrEntropyUnavailable):
		return ReasonEntropyUnavailable
	default:
		return ReasonUnknown
	}
}

// Handler returns the pipeline hook. It assigns the identifier before any
// downstream handler runs, so every later reader observes the same value.
// When generation fails the request ends with a generic 500.
func (m *Middleware) Handler() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			id, err := m.Assign(c.Response().Header())
			if err != nil {
				if m.log != nil {
					m.log.Error("request id generation failed",
						"scheme", string(m.cfg.Scheme),
						"method", c.Request().Method,
						"path", c.Request().URL.Path,
						"error", err,
					)
				}
				if !c.Response().Written() {
					router.WriteInternalError(c.Response())
				}
				return fmt.Errorf("assign request id: %w", err)
			}

			c.Set(middleware.RequestIDKey.String(), id)
			c.SetRequest(c.Request().WithContext(reqid.NewContext(c.Request().Context(), id)))

			return next(c)
		}
	}
}

// RequestID returns the hook for the default configuration.
func RequestID() router.MiddlewareFunc {
	m, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return m.Handler()
}

// GetRequestID extracts the request ID from a context.
// Returns empty string if no request ID is found.
func GetRequestID(ctx context.Context) string {
	return reqid.FromContext(ctx)
}
