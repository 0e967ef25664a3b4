// Package logging writes one access-log entry per request.
package logging

import (
	"net/http"
	"strings"
	"time"

	"github.com/nimburion/correlation/pkg/middleware"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router"
)

// Log field name constants
const (
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
	FieldError      = "error"
	FieldService    = "service"
)

// Config configures request logging middleware behavior.
type Config struct {
	Enabled bool
	// LogStart adds a DEBUG entry when the request enters the handler chain.
	LogStart bool
	// ExcludedPathPrefixes are never logged, e.g. health probes.
	ExcludedPathPrefixes []string
	// Service tags every entry and is stored under middleware.ServiceKey.
	Service string
}

// DefaultConfig returns default request logging behavior.
func DefaultConfig() Config {
	return Config{Enabled: true}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates request logging middleware with custom configuration.
// The request ID is read from the request context, so the middleware must
// run after the requestid plugin.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	if cfg.Service != "" {
		log = log.With(FieldService, cfg.Service)
	}
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if cfg.Service != "" {
				c.Set(middleware.ServiceKey.String(), cfg.Service)
			}
			req := c.Request()
			if !cfg.Enabled || excluded(cfg.ExcludedPathPrefixes, req.URL.Path) {
				return next(c)
			}

			start := time.Now()
			requestID := requestid.FromContext(req.Context())

			if cfg.LogStart {
				log.Debug("request started", startFields(req, requestID)...)
			}

			err := next(c)
			duration := time.Since(start)

			status := c.Response().Status()
			if err != nil && !c.Response().Written() {
				status = http.StatusInternalServerError
			}

			fields := append(startFields(req, requestID),
				FieldStatus, status,
				FieldDurationMS, duration.Milliseconds(),
			)
			if err != nil {
				log.Error("request failed", append(fields, FieldError, err)...)
				return err
			}

			log.Info("request completed", fields...)
			return nil
		}
	}
}

func startFields(req *http.Request, requestID string) []any {
	return []any{
		FieldRequestID, requestID,
		FieldMethod, req.Method,
		FieldPath, req.URL.Path,
		FieldRemoteAddr, req.RemoteAddr,
	}
}

func excluded(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
