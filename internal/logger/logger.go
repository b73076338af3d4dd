package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// New creates a new structured logger with default configuration
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// NewJSON creates a logger that writes one JSON object per line to stdout.
// The level is emitted as "severity" so Cloud Logging picks it up.
func NewJSON() zerolog.Logger {
	return newJSON(os.Stdout)
}

func newJSON(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Hook(severityHook{}).With().Timestamp().Logger()
}

// NewWithWriter creates a new structured logger with a custom writer
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// Configure builds the process logger from the configured format and level.
// Unknown levels fall back to info.
func Configure(format, level string) zerolog.Logger {
	var log zerolog.Logger
	if strings.EqualFold(format, "json") {
		log = NewJSON()
	} else {
		log = New()
	}
	return log.Level(ParseLevel(level))
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a default logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return New()
}

// WithFields adds structured fields to a logger
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

// severityHook maps zerolog levels onto Cloud Logging severities.
type severityHook struct{}

func (severityHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	var severity string
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		severity = "DEBUG"
	case zerolog.InfoLevel:
		severity = "INFO"
	case zerolog.WarnLevel:
		severity = "WARNING"
	case zerolog.ErrorLevel:
		severity = "ERROR"
	case zerolog.FatalLevel, zerolog.PanicLevel:
		severity = "CRITICAL"
	default:
		severity = "DEFAULT"
	}
	e.Str("severity", severity)
}
