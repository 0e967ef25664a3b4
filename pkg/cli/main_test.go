package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nimburion/correlation/pkg/config"
	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
)

func run(t *testing.T, opts ServiceCommandOptions, args ...string) (string, error) {
	t.Helper()
	if opts.Name == "" {
		opts.Name = "testsvc"
	}
	cmd := NewServiceCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	tests := []struct {
		scheme string
		want   requestid.Scheme
	}{
		{"ULID", requestid.SchemeULID},
		{"uuid", requestid.SchemeUUID},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			out, err := run(t, ServiceCommandOptions{}, "generate", "-n", "5", "--scheme", tt.scheme)
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			lines := strings.Fields(out)
			if len(lines) != 5 {
				t.Fatalf("expected 5 ids, got %q", out)
			}
			seen := map[string]bool{}
			for _, id := range lines {
				if err := requestid.Validate(tt.want, id); err != nil {
					t.Errorf("invalid id %q: %v", id, err)
				}
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
			}
		})
	}
}

func TestGenerateCommand_Errors(t *testing.T) {
	if _, err := run(t, ServiceCommandOptions{}, "generate", "--scheme", "KSUID"); !errors.Is(err, requestid.ErrUnknownScheme) {
		t.Errorf("unknown scheme error = %v", err)
	}
	if _, err := run(t, ServiceCommandOptions{}, "generate", "-n", "0"); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestConfigShow_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "service:\n  name: from-file\nhttp:\n  port: 8181\nrequest_id:\n  scheme: UUID\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLITEST_HTTP_PORT", "8282")

	out, err := run(t, ServiceCommandOptions{EnvPrefix: "clitest"},
		"config", "show", "-c", path, "--observability.log_level", "DEBUG")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if cfg.Service.Name != "from-file" {
		t.Errorf("service name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Port != 8282 {
		t.Errorf("env should override file port, got %d", cfg.HTTP.Port)
	}
	if cfg.RequestID.Scheme != "UUID" {
		t.Errorf("scheme = %q", cfg.RequestID.Scheme)
	}
	if cfg.Observability.LogLevel != string(logger.DebugLevel) {
		t.Errorf("flag should set log level, got %q", cfg.Observability.LogLevel)
	}
}

func TestConfigValidate(t *testing.T) {
	out, err := run(t, ServiceCommandOptions{}, "config", "validate")
	if err != nil || !strings.Contains(out, "Configuration is valid") {
		t.Fatalf("validate = %q, %v", out, err)
	}

	_, err = run(t, ServiceCommandOptions{}, "config", "validate", "--request_id.scheme", "KSUID")
	if err == nil {
		t.Fatal("expected validation error for unknown scheme")
	}

	custom := errors.New("custom")
	_, err = run(t, ServiceCommandOptions{ValidateConfig: func(*config.Config) error { return custom }}, "config", "validate")
	if !errors.Is(err, custom) {
		t.Fatalf("custom validation error = %v", err)
	}
}

func TestServeCommand_UsesRunServer(t *testing.T) {
	var got *config.Config
	opts := ServiceCommandOptions{
		Name: "svc",
		RunServer: func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			got = cfg
			return nil
		},
	}
	if _, err := run(t, opts, "serve", "--service-name", "override", "--http.port", "9191", "--observability.log_level", "error"); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunServer was not called")
	}
	if got.Service.Name != "override" || got.HTTP.Port != 9191 {
		t.Errorf("unexpected config %+v", got)
	}
}

func TestServeCommand_ServiceNameOverrideBeatsEmptyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service:\n  name: \"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	var got string
	opts := ServiceCommandOptions{
		LogOutput: &logs,
		RunServer: func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			got = cfg.Service.Name
			return nil
		},
	}

	if _, err := run(t, opts, "serve", "-c", path); err == nil {
		t.Fatal("expected validation error for an empty service name")
	}
	if _, err := run(t, opts, "serve", "-c", path, "--service-name", "ledger"); err != nil {
		t.Fatalf("serve with override failed: %v", err)
	}
	if got != "ledger" {
		t.Fatalf("service name = %q, want ledger", got)
	}
}

func TestServeCommand_LifecycleLogsTaggedWithService(t *testing.T) {
	var logs bytes.Buffer
	failure := errors.New("listener closed")
	opts := ServiceCommandOptions{
		Name:      "billing",
		LogOutput: &logs,
		RunServer: func(ctx context.Context, cfg *config.Config, log logger.Logger) error {
			return failure
		},
	}
	if _, err := run(t, opts, "serve"); !errors.Is(err, failure) {
		t.Fatalf("serve error = %v", err)
	}

	out := logs.String()
	for _, want := range []string{
		"\tINFO\tbilling\tservice starting",
		"\tCRITICAL\tbilling\tservice stopped: listener closed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRequestLoggingFlag(t *testing.T) {
	out, err := run(t, ServiceCommandOptions{}, "config", "show", "--observability.request_logging=false")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Observability.RequestLogging {
		t.Fatal("flag did not disable request logging")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, ServiceCommandOptions{Name: "svc"}, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Service:    svc") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = run(t, ServiceCommandOptions{Name: "svc"}, "version", "-o", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "service: svc") {
		t.Errorf("unexpected yaml output %q", out)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Observability.LogFormat = "xml"
	if _, err := NewLogger(cfg, io.Discard); err == nil {
		t.Error("expected error for unknown format")
	}
	cfg.Observability.LogFormat = "json"
	if _, err := NewLogger(cfg, io.Discard); err != nil {
		t.Errorf("NewLogger() = %v", err)
	}
}
