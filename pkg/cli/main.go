package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/nimburion/correlation/pkg/config"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
	"github.com/nimburion/correlation/pkg/server"
	"github.com/nimburion/correlation/pkg/version"
)

// maxGenerateCount bounds a single generate invocation.
const maxGenerateCount = 100000

// ServiceCommandOptions defines callbacks for service-specific logic.
type ServiceCommandOptions struct {
	Name        string
	Description string
	ConfigPath  string
	EnvPrefix   string

	// Optional: server startup logic. Defaults to RunServer.
	RunServer func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: custom config validation (runs after the built-in validation)
	ValidateConfig func(cfg *config.Config) error

	// Optional: additional custom commands
	CustomCommands []*cobra.Command

	// Optional: log destination, stdout when nil.
	LogOutput io.Writer
}

// NewServiceCommand creates the CLI with serve, generate, config and version subcommands.
func NewServiceCommand(opts ServiceCommandOptions) *cobra.Command {
	opts.EnvPrefix = resolveEnvPrefix(opts.EnvPrefix)
	if opts.RunServer == nil {
		opts.RunServer = RunServer
	}

	rootCmd := &cobra.Command{
		Use:           opts.Name,
		Short:         opts.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	var serviceNameOverride string
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&serviceNameOverride, "service-name", "", "service name override")
	registerConfigFlags(rootCmd.PersistentFlags())

	loadConfig := func(flags *pflag.FlagSet) (*config.Config, error) {
		return LoadConfig(cfgPath, opts.EnvPrefix, flags, opts.ValidateConfig, opts.Name, serviceNameOverride)
	}

	// version command
	var versionOutput string
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current(opts.Name)
			out := cmd.OutOrStdout()
			if versionOutput == "yaml" {
				return writeYAML(out, info)
			}
			fmt.Fprintf(out, "Service:    %s\n", info.Service)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
			fmt.Fprintf(out, "Go:         %s\n", info.GoVersion)
			return nil
		},
	}
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "text", "output format (text, yaml)")
	rootCmd.AddCommand(versionCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := NewLogger(cfg, opts.LogOutput)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			logConfigIfDebug(log, cfg)

			lifecycle := log.Services()
			lifecycle.Info(cfg.Service.Name, "service starting")
			if err := opts.RunServer(commandContext(cmd), cfg, log); err != nil {
				lifecycle.Critical(cfg.Service.Name, "service stopped: "+err.Error())
				return err
			}
			lifecycle.Info(cfg.Service.Name, "service stopped")
			return nil
		},
	}
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(newGenerateCommand())

	// config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd.Flags()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), cfg)
		},
	})
	rootCmd.AddCommand(configCmd)

	for _, custom := range opts.CustomCommands {
		if custom != nil {
			rootCmd.AddCommand(custom)
		}
	}

	return rootCmd
}

func newGenerateCommand() *cobra.Command {
	var (
		count  int
		scheme string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print request identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || count > maxGenerateCount {
				return fmt.Errorf("count must be between 1 and %d, got %d", maxGenerateCount, count)
			}
			s, err := requestid.ParseScheme(scheme)
			if err != nil {
				return err
			}
			gen, err := requestid.NewGenerator(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				id, err := gen.Generate()
				if err != nil {
					return fmt.Errorf("generate %s: %w", s, err)
				}
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of identifiers to print")
	cmd.Flags().StringVar(&scheme, "scheme", string(requestid.DefaultScheme), "identifier scheme (UUID, ULID)")
	return cmd
}

// registerConfigFlags adds flags named after config keys so the loader can
// bind them with the highest precedence.
func registerConfigFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultConfig()
	flags.String("router_type", defaults.RouterType, "router adapter (nethttp, gin, gorilla)")
	flags.Int("http.port", defaults.HTTP.Port, "public HTTP port")
	flags.Int("management.port", defaults.Management.Port, "management HTTP port")
	flags.Bool("management.enabled", defaults.Management.Enabled, "enable the management server")
	flags.String("request_id.scheme", defaults.RequestID.Scheme, "request identifier scheme (UUID, ULID)")
	flags.Bool("request_id.fallback_to_uuid", defaults.RequestID.FallbackToUUID, "fall back to UUID when the clock is unavailable")
	flags.String("observability.log_level", defaults.Observability.LogLevel, "minimum log level")
	flags.String("observability.log_format", defaults.Observability.LogFormat, "log format (text, json)")
	flags.Bool("observability.request_logging", defaults.Observability.RequestLogging, "write one access-log entry per request")
}

// LoadConfig loads and validates configuration from file, environment and flags.
func LoadConfig(
	cfgPath, envPrefix string,
	flags *pflag.FlagSet,
	validate func(*config.Config) error,
	defaultServiceName, serviceNameOverride string,
) (*config.Config, error) {
	cfg, err := config.NewViperLoader(cfgPath, envPrefix).
		WithFlags(flags).
		WithServiceName(defaultServiceName, serviceNameOverride).
		Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("custom validation failed: %w", err)
		}
	}
	return cfg, nil
}

// NewLogger builds the zap logger described by cfg.Observability. A nil out
// writes to stdout.
func NewLogger(cfg *config.Config, out io.Writer) (*logger.ZapLogger, error) {
	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format, Output: out})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

// RunServer builds the public and management servers and runs them until
// ctx is done or the process receives SIGINT or SIGTERM.
func RunServer(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	servers, err := server.BuildHTTPServers(server.Options{Config: cfg, Logger: log})
	if err != nil {
		return fmt.Errorf("build servers: %w", err)
	}
	log.Info("starting servers",
		"service", cfg.Service.Name,
		"router", cfg.RouterType,
		"request_id_scheme", cfg.RequestID.Scheme,
	)
	if err := server.RunHTTPServersWithSignals(ctx, servers, log); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("servers stopped")
	return nil
}

// Execute runs the command and exits with appropriate code.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func logConfigIfDebug(log logger.Logger, cfg *config.Config) {
	if log == nil || cfg == nil {
		return
	}
	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil || !logger.DebugLevel.Enabled(level) {
		return
	}
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", *cfg))
}

func resolveEnvPrefix(prefix string) string {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return config.DefaultEnvPrefix
	}
	return strings.ToUpper(trimmed)
}
