// Package log wraps zerolog the way cardinal/log does, with one addition:
// a caller-supplied callback sink so an embedding application can route
// save/load diagnostics through its own logging stack instead of zerolog's.
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's severity levels without exposing zerolog in the
// package's public surface, so a Sink callback doesn't need to import it.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Sink receives a formatted log line instead of zerolog handling it
// directly, letting an embedding application fold save/load diagnostics
// into its own logger.
type Sink func(level Level, msg string)

// Logger is the logging facade used throughout this module. By default it
// writes structured JSON to stderr through zerolog; a Sink bypasses zerolog
// entirely.
type Logger struct {
	zl   zerolog.Logger
	sink Sink
}

// New returns a Logger that writes through zerolog to os.Stderr.
func New() *Logger {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// WithSink returns a copy of the Logger that routes every message to sink
// instead of zerolog.
func (l *Logger) WithSink(sink Sink) *Logger {
	return &Logger{zl: l.zl, sink: sink}
}

// With returns a copy of the Logger with a structured field attached to
// every subsequent message (ignored when a Sink is active, since a Sink
// receives only the rendered message).
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger(), sink: l.sink}
}

func (l *Logger) log(level Level, msg string) {
	if l.sink != nil {
		l.sink(level, msg)
		return
	}
	l.zl.WithLevel(level.zerolog()).Msg(msg)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, sprintf(format, args...)) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.log(Info, sprintf(format, args...)) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.log(Warn, sprintf(format, args...)) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, sprintf(format, args...)) }
