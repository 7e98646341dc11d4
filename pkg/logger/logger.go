// Package logger provides a simple logging interface backed by zerolog
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
	// With returns a child logger carrying an extra structured field
	With(key, value string) Logger
}

// Options controls how New builds a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Out    io.Writer
}

type logger struct {
	zl zerolog.Logger
}

// New creates a logger using LOG_LEVEL and LOG_FORMAT from the environment
func New() Logger {
	return NewWithOptions(Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})
}

// NewWithOptions creates a logger from explicit options
func NewWithOptions(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if strings.ToLower(opts.Format) != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	zl := zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	return &logger{zl: zl}
}

// Nop returns a logger that discards everything, for tests
func Nop() Logger {
	return &logger{zl: zerolog.Nop()}
}

// ParseLevel converts string log level to a zerolog level
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether levelStr names a supported level
func ValidLevel(levelStr string) bool {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) With(key, value string) Logger {
	return &logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *logger) Debug(v ...interface{}) { l.zl.Debug().Msg(fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...interface{}) { l.zl.Debug().Msgf(format, v...) }

func (l *logger) Info(v ...interface{}) { l.zl.Info().Msg(fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...interface{}) { l.zl.Info().Msgf(format, v...) }

func (l *logger) Warn(v ...interface{}) { l.zl.Warn().Msg(fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...interface{}) { l.zl.Warn().Msgf(format, v...) }

func (l *logger) Error(v ...interface{}) { l.zl.Error().Msg(fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
	os.Exit(1)
}
