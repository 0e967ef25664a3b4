// Package logger provides the leveled logging facility shared by the
// request pipeline and the command line.
package logger

import (
	"context"
)

// Logger defines the interface for structured logging throughout the module.
// All log methods accept a message string followed by key-value pairs for structured fields.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger with additional key-value pairs that will be
	// included in all subsequent log entries
	With(args ...any) Logger

	// WithContext creates a child logger tagged with the request ID carried by ctx
	WithContext(ctx context.Context) Logger
}

// ServiceLogger writes plain messages tagged by the emitting service and a severity.
type ServiceLogger interface {
	Log(service, msg string, level LogLevel)
	Trace(service, msg string)
	Debug(service, msg string)
	Info(service, msg string)
	Warning(service, msg string)
	Error(service, msg string)
	Critical(service, msg string)
}
