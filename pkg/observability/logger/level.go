package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel string

// Log level constants, from least to most severe.
const (
	TraceLevel    LogLevel = "trace"
	DebugLevel    LogLevel = "debug"
	InfoLevel     LogLevel = "info"
	WarnLevel     LogLevel = "warning"
	ErrorLevel    LogLevel = "error"
	CriticalLevel LogLevel = "critical"
)

// zap has no trace or critical levels. Trace sits one step below debug and
// critical takes the DPanic slot, which only panics in development loggers.
const (
	zapTraceLevel    = zapcore.DebugLevel - 1
	zapCriticalLevel = zapcore.DPanicLevel
)

// Levels lists every level in ascending severity.
func Levels() []LogLevel {
	return []LogLevel{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, CriticalLevel}
}

// ParseLogLevel converts a string to a LogLevel. Names are case-insensitive
// and "warn" is accepted as an alias of "warning".
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical":
		return CriticalLevel, nil
	default:
		return "", fmt.Errorf("invalid log level: %s", level)
	}
}

// Enabled reports whether an entry at level l passes the minimum level min.
func (l LogLevel) Enabled(min LogLevel) bool {
	return l.zap() >= min.zap()
}

// Label returns the upper-case name written to the log line.
func (l LogLevel) Label() string {
	return levelLabel(l.zap())
}

func (l LogLevel) zap() zapcore.Level {
	switch l {
	case TraceLevel:
		return zapTraceLevel
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel, "warn":
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case CriticalLevel:
		return zapCriticalLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelLabel(l zapcore.Level) string {
	switch {
	case l <= zapTraceLevel:
		return "TRACE"
	case l == zapcore.DebugLevel:
		return "DEBUG"
	case l == zapcore.InfoLevel:
		return "INFO"
	case l == zapcore.WarnLevel:
		return "WARNING"
	case l == zapcore.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(levelLabel(l))
}
