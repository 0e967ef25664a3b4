package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nimburion/correlation/pkg/requestid"
)

// ZapLogger is a Logger implementation using uber-go/zap for structured logging.
// It also implements ServiceLogger through Log and Services.
type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	// svc carries one extra caller skip for the Log helpers.
	svc *zap.Logger
}

// LogFormat represents the output format for logs
type LogFormat string

// Log format constants
const (
	// JSONFormat outputs structured JSON logs
	JSONFormat LogFormat = "json"
	// TextFormat outputs human-readable text logs
	TextFormat LogFormat = "text"
)

// Config holds configuration for the logger
type Config struct {
	Level  LogLevel
	Format LogFormat
	// Output defaults to stdout.
	Output io.Writer
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:  InfoLevel,
		Format: TextFormat,
	}
}

// NewZapLogger creates a new ZapLogger with the specified configuration.
// Text output is meant for humans: wall-clock time as HH:MM:SS, the upper-case
// level, the service name and the message.
func NewZapLogger(cfg Config) (*ZapLogger, error) {
	if cfg.Level == "" {
		cfg.Level = InfoLevel
	}
	if _, err := ParseLogLevel(string(cfg.Level)); err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "service",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case JSONFormat:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case TextFormat, "":
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoderConfig.CallerKey = zapcore.OmitKey
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), cfg.Level.zap())

	return newZapLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))), nil
}

func newZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{
		logger: l,
		sugar:  l.Sugar(),
		svc:    l.WithOptions(zap.AddCallerSkip(1)),
	}
}

// Trace logs a trace-level message with optional key-value pairs
func (l *ZapLogger) Trace(msg string, args ...any) {
	l.sugar.Logw(zapTraceLevel, msg, args...)
}

// Debug logs a debug-level message with optional key-value pairs
func (l *ZapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Info logs an info-level message with optional key-value pairs
func (l *ZapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

// Warn logs a warning-level message with optional key-value pairs
func (l *ZapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

// Error logs an error-level message with optional key-value pairs
func (l *ZapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

// Critical logs a critical-level message with optional key-value pairs
func (l *ZapLogger) Critical(msg string, args ...any) {
	l.sugar.Logw(zapCriticalLevel, msg, args...)
}

// With creates a child logger with additional key-value pairs that will be
// included in all subsequent log entries
func (l *ZapLogger) With(args ...any) Logger {
	return newZapLogger(l.sugar.With(args...).Desugar())
}

// WithContext creates a child logger tagged with the request ID stored in ctx.
// The logger is returned unchanged when ctx carries none.
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	if id := requestid.FromContext(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

// Log writes msg tagged with service at level. Entries below the configured
// minimum level are dropped. An unrecognized level is treated as info.
func (l *ZapLogger) Log(service, msg string, level LogLevel) {
	write(l.svc, service, msg, level)
}

// Services returns the ServiceLogger view of l.
func (l *ZapLogger) Services() ServiceLogger {
	return serviceLog{lg: l.svc}
}

// Sync flushes any buffered log entries. Applications should call this before exiting.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func write(lg *zap.Logger, service, msg string, level LogLevel) {
	if service != "" {
		lg = lg.Named(service)
	}
	if ce := lg.Check(level.zap(), msg); ce != nil {
		ce.Write()
	}
}

type serviceLog struct {
	lg *zap.Logger
}

func (s serviceLog) Log(service, msg string, level LogLevel) { write(s.lg, service, msg, level) }
func (s serviceLog) Trace(service, msg string)               { write(s.lg, service, msg, TraceLevel) }
func (s serviceLog) Debug(service, msg string)               { write(s.lg, service, msg, DebugLevel) }
func (s serviceLog) Info(service, msg string)                { write(s.lg, service, msg, InfoLevel) }
func (s serviceLog) Warning(service, msg string)             { write(s.lg, service, msg, WarnLevel) }
func (s serviceLog) Error(service, msg string)               { write(s.lg, service, msg, ErrorLevel) }
func (s serviceLog) Critical(service, msg string)            { write(s.lg, service, msg, CriticalLevel) }

// ParseLogFormat converts a string to a LogFormat
func ParseLogFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, nil
	case "text", "console":
		return TextFormat, nil
	default:
		return "", fmt.Errorf("invalid log format: %s", format)
	}
}
