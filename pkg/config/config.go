// Package config loads the service configuration from defaults, an optional
// file, environment variables and command line flags.
package config

import (
	"time"

	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server/router/factory"
)

// DefaultEnvPrefix prefixes every environment variable, e.g. APP_HTTP_PORT.
const DefaultEnvPrefix = "APP"

// Config is the root configuration structure of the service.
type Config struct {
	RouterType    string              `mapstructure:"router_type" yaml:"router_type"`
	Service       ServiceConfig       `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig          `mapstructure:"http" yaml:"http"`
	Management    ManagementConfig    `mapstructure:"management" yaml:"management"`
	RequestID     RequestIDConfig     `mapstructure:"request_id" yaml:"request_id"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// HTTPConfig configures the public API server
type HTTPConfig struct {
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// ManagementConfig configures the management server
type ManagementConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" yaml:"port"`
}

// RequestIDConfig selects the correlation identifier scheme.
type RequestIDConfig struct {
	Scheme         string `mapstructure:"scheme" yaml:"scheme"`
	FallbackToUUID bool   `mapstructure:"fallback_to_uuid" yaml:"fallback_to_uuid"`
}

// ObservabilityConfig configures logging
type ObservabilityConfig struct {
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // json, text
	// RequestLogging toggles the per-request access log.
	RequestLogging bool `mapstructure:"request_logging" yaml:"request_logging"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		RouterType: factory.DefaultType,
		Service: ServiceConfig{
			Name: "correlationd",
		},
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Management: ManagementConfig{
			Enabled: true,
			Port:    9090,
		},
		RequestID: RequestIDConfig{
			Scheme: string(requestid.DefaultScheme),
		},
		Observability: ObservabilityConfig{
			LogLevel:       string(logger.InfoLevel),
			LogFormat:      string(logger.TextFormat),
			RequestLogging: true,
		},
	}
}
