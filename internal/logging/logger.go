// Package logging provides structured logging for the extraction core. It
// wraps zerolog with a console/JSON format switch controlled by
// GRAPHCTL_LOG_FORMAT (SPEC_FULL §"Configuration").
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config holds logger configuration.
type Config struct {
	Level      Level
	JSONFormat bool
	Output     io.Writer
}

// DefaultConfig returns sensible development defaults: info level,
// human-readable console output to stdout.
func DefaultConfig() *Config {
	return &Config{Level: LevelInfo, JSONFormat: false, Output: os.Stdout}
}

// Logger is the structured logging interface used throughout the pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Zerolog() zerolog.Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error Field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

type logger struct {
	zl zerolog.Logger
}

// NewLogger builds a Logger per cfg. A nil cfg falls back to DefaultConfig.
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var zl zerolog.Logger
	if cfg.JSONFormat {
		zl = zerolog.New(output).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return &logger{zl: zl}
}

func (l *logger) Zerolog() zerolog.Logger { return l.zl }

func parseLevel(lv Level) zerolog.Level {
	switch lv {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *logger) Debug(msg string, fields ...Field) { addFields(l.zl.Debug(), fields).Msg(msg) }
func (l *logger) Info(msg string, fields ...Field)  { addFields(l.zl.Info(), fields).Msg(msg) }
func (l *logger) Warn(msg string, fields ...Field)  { addFields(l.zl.Warn(), fields).Msg(msg) }
func (l *logger) Error(msg string, fields ...Field) { addFields(l.zl.Error(), fields).Msg(msg) }

func (l *logger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = addFieldToContext(ctx, f)
	}
	return &logger{zl: ctx.Logger()}
}

func addFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.Err(v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

func addFieldToContext(ctx zerolog.Context, f Field) zerolog.Context {
	switch v := f.Value.(type) {
	case string:
		return ctx.Str(f.Key, v)
	case int:
		return ctx.Int(f.Key, v)
	case float64:
		return ctx.Float64(f.Key, v)
	case bool:
		return ctx.Bool(f.Key, v)
	case error:
		return ctx.Err(v)
	case time.Duration:
		return ctx.Dur(f.Key, v)
	default:
		return ctx.Interface(f.Key, v)
	}
}

var global Logger

// SetGlobal installs the package-level logger.
func SetGlobal(l Logger) { global = l }

// MustGlobal returns the global logger, initializing it with defaults on
// first use.
func MustGlobal() Logger {
	if global == nil {
		global = NewLogger(DefaultConfig())
	}
	return global
}

// NewNopLogger returns a Logger that discards all output, for tests that
// don't want log noise.
func NewNopLogger() Logger { return &nopLogger{} }

type nopLogger struct{}

func (n *nopLogger) Debug(msg string, fields ...Field) {}
func (n *nopLogger) Info(msg string, fields ...Field)  {}
func (n *nopLogger) Warn(msg string, fields ...Field)  {}
func (n *nopLogger) Error(msg string, fields ...Field) {}
func (n *nopLogger) With(fields ...Field) Logger       { return n }
func (n *nopLogger) Zerolog() zerolog.Logger           { return zerolog.Nop() }
