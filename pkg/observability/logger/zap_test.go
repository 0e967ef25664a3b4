package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/nimburion/correlation/pkg/requestid"
)

func newBufferedLogger(t *testing.T, level LogLevel, format LogFormat) (*ZapLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := NewZapLogger(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewZapLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "json format with debug level", config: Config{Level: DebugLevel, Format: JSONFormat}},
		{name: "text format with info level", config: Config{Level: InfoLevel, Format: TextFormat}},
		{name: "trace level", config: Config{Level: TraceLevel, Format: JSONFormat}},
		{name: "critical level", config: Config{Level: CriticalLevel, Format: TextFormat}},
		{name: "empty config uses defaults", config: Config{}},
		{name: "unknown level", config: Config{Level: "loud"}, wantErr: true},
		{name: "unknown format", config: Config{Level: InfoLevel, Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Output = &bytes.Buffer{}
			l, err := NewZapLogger(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewZapLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && l == nil {
				t.Fatal("expected logger, got nil")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != InfoLevel {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != TextFormat {
		t.Errorf("expected default format text, got %s", cfg.Format)
	}
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logLevel LogLevel
		logFunc  func(l *ZapLogger)
		expected bool
	}{
		{"trace level logs trace", TraceLevel, func(l *ZapLogger) { l.Trace("m") }, true},
		{"debug level does not log trace", DebugLevel, func(l *ZapLogger) { l.Trace("m") }, false},
		{"info level does not log debug", InfoLevel, func(l *ZapLogger) { l.Debug("m") }, false},
		{"info level logs info", InfoLevel, func(l *ZapLogger) { l.Info("m") }, true},
		{"warn level does not log info", WarnLevel, func(l *ZapLogger) { l.Info("m") }, false},
		{"warn level logs warn", WarnLevel, func(l *ZapLogger) { l.Warn("m") }, true},
		{"error level logs error", ErrorLevel, func(l *ZapLogger) { l.Error("m") }, true},
		{"critical level does not log error", CriticalLevel, func(l *ZapLogger) { l.Error("m") }, false},
		{"critical level logs critical", CriticalLevel, func(l *ZapLogger) { l.Critical("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferedLogger(t, tt.logLevel, JSONFormat)
			tt.logFunc(l)
			if got := buf.Len() > 0; got != tt.expected {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.expected, buf.String())
			}
		})
	}
}

func TestZapLogger_LevelLabels(t *testing.T) {
	l, buf := newBufferedLogger(t, TraceLevel, JSONFormat)
	for _, level := range Levels() {
		l.Log("svc", "msg", level)
	}

	entries := decodeLines(t, buf)
	want := []string{"TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry["level"] != want[i] {
			t.Errorf("entry %d: level = %v, want %s", i, entry["level"], want[i])
		}
		if entry["service"] != "svc" {
			t.Errorf("entry %d: service = %v, want svc", i, entry["service"])
		}
	}
}

func TestZapLogger_LogDropsBelowMinimum(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel, JSONFormat)
	l.Log("api", "hidden", DebugLevel)
	l.Log("api", "hidden", TraceLevel)
	if buf.Len() != 0 {
		t.Fatalf("expected no output below INFO, got %q", buf.String())
	}
	l.Log("api", "shown", InfoLevel)
	if entries := decodeLines(t, buf); len(entries) != 1 || entries[0]["message"] != "shown" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestZapLogger_LogUnknownLevelIsInfo(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel, JSONFormat)
	l.Log("api", "odd", LogLevel("verbose"))
	entries := decodeLines(t, buf)
	if len(entries) != 1 || entries[0]["level"] != "INFO" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestZapLogger_TextFormat(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel, TextFormat)
	l.Services().Warning("billing", "disk almost full")

	line := strings.TrimSpace(buf.String())
	pattern := regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\tWARNING\tbilling\tdisk almost full$`)
	if !pattern.MatchString(line) {
		t.Fatalf("unexpected text line %q", line)
	}
}

func TestServiceLogger_Shorthands(t *testing.T) {
	l, buf := newBufferedLogger(t, TraceLevel, JSONFormat)
	svc := l.Services()

	svc.Trace("a", "t")
	svc.Debug("a", "d")
	svc.Info("a", "i")
	svc.Warning("a", "w")
	svc.Error("a", "e")
	svc.Critical("a", "c")

	entries := decodeLines(t, buf)
	want := map[string]string{"t": "TRACE", "d": "DEBUG", "i": "INFO", "w": "WARNING", "e": "ERROR", "c": "CRITICAL"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for _, entry := range entries {
		msg, _ := entry["message"].(string)
		if entry["level"] != want[msg] {
			t.Errorf("message %q logged at %v, want %s", msg, entry["level"], want[msg])
		}
	}
}

func TestZapLogger_StructuredFields(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel, JSONFormat)
	l.Info("test message", "key1", "value1", "key2", 42, "key3", true)

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["key1"] != "value1" || entry["key2"] != float64(42) || entry["key3"] != true {
		t.Errorf("missing structured fields: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestZapLogger_With(t *testing.T) {
	l, buf := newBufferedLogger(t, InfoLevel, JSONFormat)

	child := l.With("service_version", "1.0.0")
	child.Info("child")
	l.Info("parent")

	entries := decodeLines(t, buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["service_version"] != "1.0.0" {
		t.Errorf("child entry missing field: %v", entries[0])
	}
	if _, ok := entries[1]["service_version"]; ok {
		t.Errorf("parent entry should not carry child field: %v", entries[1])
	}
}

func TestZapLogger_WithContext(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
	}{
		{
			name:      "context with request ID",
			ctx:       requestid.NewContext(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV"),
			requestID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		},
		{name: "context without request ID", ctx: context.Background()},
		{name: "nil context", ctx: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferedLogger(t, InfoLevel, JSONFormat)
			l.WithContext(tt.ctx).Info("with context")

			entries := decodeLines(t, buf)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			got, ok := entries[0]["request_id"]
			if tt.requestID == "" {
				if ok {
					t.Errorf("unexpected request_id %v", got)
				}
				return
			}
			if got != tt.requestID {
				t.Errorf("request_id = %v, want %s", got, tt.requestID)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"DEBUG", DebugLevel, false},
		{"Info", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"WARNING", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"critical", CriticalLevel, false},
		{"fatal", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    LogFormat
		wantErr bool
	}{
		{"json", JSONFormat, false},
		{"text", TextFormat, false},
		{"console", TextFormat, false},
		{"JSON", JSONFormat, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogLevel_Label(t *testing.T) {
	if WarnLevel.Label() != "WARNING" {
		t.Errorf("WarnLevel.Label() = %s", WarnLevel.Label())
	}
	if !CriticalLevel.Enabled(ErrorLevel) || TraceLevel.Enabled(DebugLevel) {
		t.Error("level ordering is wrong")
	}
}
