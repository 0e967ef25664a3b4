package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper.
// Precedence: flags > ENV > file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
	flags      *pflag.FlagSet
	v          *viper.Viper

	serviceNameDefault  string
	serviceNameOverride string
}

// NewViperLoader creates a new ViperLoader
// configFile: path to configuration file (optional, can be empty)
// envPrefix: prefix for environment variables (empty means APP)
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// WithFlags binds changed flags named after config keys, e.g. --http.port.
func (l *ViperLoader) WithFlags(flags *pflag.FlagSet) *ViperLoader {
	l.flags = flags
	return l
}

// WithServiceName replaces the built-in service name default and, when
// override is set, forces service.name above every other source. Both are
// applied before validation.
func (l *ViperLoader) WithServiceName(defaultName, override string) *ViperLoader {
	l.serviceNameDefault = strings.TrimSpace(defaultName)
	l.serviceNameOverride = strings.TrimSpace(override)
	return l
}

// ConfigFile returns the configured file path, or "" when none.
func (l *ViperLoader) ConfigFile() string {
	return l.configFile
}

// AllSettings returns the merged settings of the last Load.
func (l *ViperLoader) AllSettings() map[string]interface{} {
	if l.v == nil {
		return map[string]interface{}{}
	}
	return l.v.AllSettings()
}

// Load loads and validates the configuration.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()
	l.v = v

	setDefaults(v, DefaultConfig())
	if l.serviceNameDefault != "" {
		v.SetDefault("service.name", l.serviceNameDefault)
	}

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	if err := l.bindEnvVars(v); err != nil {
		return nil, err
	}
	if err := l.bindFlags(v); err != nil {
		return nil, err
	}
	if l.serviceNameOverride != "" {
		v.Set("service.name", l.serviceNameOverride)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate normalizes cfg in place and reports every invalid field.
func (l *ViperLoader) Validate(cfg *Config) error {
	return cfg.Validate()
}

var envKeys = map[string]string{
	"router_type":                   "ROUTER_TYPE",
	"service.name":                  "SERVICE_NAME",
	"http.port":                     "HTTP_PORT",
	"http.read_timeout":             "HTTP_READ_TIMEOUT",
	"http.write_timeout":            "HTTP_WRITE_TIMEOUT",
	"http.idle_timeout":             "HTTP_IDLE_TIMEOUT",
	"management.enabled":            "MGMT_ENABLED",
	"management.port":               "MGMT_PORT",
	"request_id.scheme":             "REQUEST_ID_SCHEME",
	"request_id.fallback_to_uuid":   "REQUEST_ID_FALLBACK_TO_UUID",
	"observability.log_level":       "LOG_LEVEL",
	"observability.log_format":      "LOG_FORMAT",
	"observability.request_logging": "REQUEST_LOGGING",
}

// Keys lists every configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(envKeys))
	for k := range envKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvVar returns the environment variable bound to key.
func (l *ViperLoader) EnvVar(key string) string {
	suffix, ok := envKeys[key]
	if !ok {
		return ""
	}
	return l.prefixedEnv(suffix)
}

func (l *ViperLoader) bindEnvVars(v *viper.Viper) error {
	for key, suffix := range envKeys {
		if err := v.BindEnv(key, l.prefixedEnv(suffix)); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func (l *ViperLoader) bindFlags(v *viper.Viper) error {
	if l.flags == nil {
		return nil
	}
	for key := range envKeys {
		flag := l.flags.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	prefix := strings.TrimSpace(l.envPrefix)
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(prefix), suffix)
}

// setDefaults sets default values in Viper from the default config
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("router_type", cfg.RouterType)
	v.SetDefault("service.name", cfg.Service.Name)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)

	v.SetDefault("request_id.scheme", cfg.RequestID.Scheme)
	v.SetDefault("request_id.fallback_to_uuid", cfg.RequestID.FallbackToUUID)

	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.request_logging", cfg.Observability.RequestLogging)
}
