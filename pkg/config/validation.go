package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router/factory"
)

// Validate checks the configuration and normalizes enumerated values to
// their canonical spelling. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !factory.IsSupported(c.RouterType) {
		errs = append(errs, fmt.Errorf("invalid router_type: %s (must be one of: %v)", c.RouterType, factory.SupportedTypes()))
	} else {
		c.RouterType = strings.ToLower(strings.TrimSpace(c.RouterType))
		if c.RouterType == "" {
			c.RouterType = factory.DefaultType
		}
	}

	c.Service.Name = strings.TrimSpace(c.Service.Name)
	if c.Service.Name == "" {
		errs = append(errs, errors.New("service.name is required"))
	}

	if scheme, err := requestid.ParseScheme(c.RequestID.Scheme); err != nil {
		errs = append(errs, fmt.Errorf("invalid request_id.scheme: %s (must be one of: %v)", c.RequestID.Scheme, requestid.SupportedSchemes()))
	} else {
		c.RequestID.Scheme = string(scheme)
	}

	if level, err := logger.ParseLogLevel(c.Observability.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid observability.log_level: %s (must be one of: %v)", c.Observability.LogLevel, logger.Levels()))
	} else {
		c.Observability.LogLevel = string(level)
	}

	if format, err := logger.ParseLogFormat(c.Observability.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("invalid observability.log_format: %s (must be one of: [json text])", c.Observability.LogFormat))
	} else {
		c.Observability.LogFormat = string(format)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid http.port: %d (must be between 1 and 65535)", c.HTTP.Port))
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 || c.HTTP.IdleTimeout < 0 {
		errs = append(errs, errors.New("http timeouts cannot be negative"))
	}
	if c.Management.Enabled {
		if c.Management.Port <= 0 || c.Management.Port > 65535 {
			errs = append(errs, fmt.Errorf("invalid management.port: %d (must be between 1 and 65535)", c.Management.Port))
		}
		if c.HTTP.Port == c.Management.Port {
			errs = append(errs, errors.New("http.port and management.port must be different"))
		}
	}

	return errors.Join(errs...)
}
