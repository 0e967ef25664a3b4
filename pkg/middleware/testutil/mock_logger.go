// Package testutil holds test doubles shared by the middleware packages.
package testutil

import (
	"context"
	"sync"

	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/requestid"
)

// MockLogger is a test logger that captures log entries for assertion in tests.
// It is safe for concurrent use; children created by With share the parent's entries.
type MockLogger struct {
	sink   *sink
	fields map[string]interface{}
}

type sink struct {
	mu   sync.Mutex
	logs []LogEntry
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// NewMockLogger returns an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &sink{}}
}

func (m *MockLogger) record(level, msg string, args []any) {
	if m.sink == nil {
		m.sink = &sink{}
	}
	fields := make(map[string]interface{}, len(m.fields)+len(args)/2)
	for k, v := range m.fields {
		fields[k] = v
	}
	for k, v := range argsToMap(args) {
		fields[k] = v
	}
	m.sink.mu.Lock()
	m.sink.logs = append(m.sink.logs, LogEntry{Level: level, Msg: msg, Fields: fields})
	m.sink.mu.Unlock()
}

// Debug records a debug-level log entry for testing assertions.
func (m *MockLogger) Debug(msg string, args ...any) { m.record("debug", msg, args) }

// Info records an info-level log entry for testing assertions.
func (m *MockLogger) Info(msg string, args ...any) { m.record("info", msg, args) }

// Warn records a warn-level log entry for testing assertions.
func (m *MockLogger) Warn(msg string, args ...any) { m.record("warn", msg, args) }

// Error records an error-level log entry for testing assertions.
func (m *MockLogger) Error(msg string, args ...any) { m.record("error", msg, args) }

// With returns a child logger whose entries carry the given fields.
func (m *MockLogger) With(args ...any) logger.Logger {
	if m.sink == nil {
		m.sink = &sink{}
	}
	fields := make(map[string]interface{}, len(m.fields)+len(args)/2)
	for k, v := range m.fields {
		fields[k] = v
	}
	for k, v := range argsToMap(args) {
		fields[k] = v
	}
	return &MockLogger{sink: m.sink, fields: fields}
}

// WithContext returns a child tagged with the request ID in ctx, if any.
func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	if id := requestid.FromContext(ctx); id != "" {
		return m.With("request_id", id)
	}
	return m
}

// Entries returns a snapshot of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	if m.sink == nil {
		return nil
	}
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]LogEntry, len(m.sink.logs))
	copy(out, m.sink.logs)
	return out
}

// Find returns the entries with the given level and message.
func (m *MockLogger) Find(level, msg string) []LogEntry {
	var out []LogEntry
	for _, e := range m.Entries() {
		if e.Level == level && e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
