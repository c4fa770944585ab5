// Package logger provides the subsystem-scoped structured logger used
// throughout the worker, backed by logrus.
package logger

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key-value pairs attached to a log line.
type Fields map[string]interface{}

// Log is the logging surface every component depends on, never *logrus.Logger
// directly, so call sites stay test-friendly and subsystem-scoped.
type Log interface {
	WithField(key string, value interface{}) Log
	WithFields(fields Fields) Log
	WithError(err error) Log
	Trace(args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

// Factory builds a Log scoped to a named subsystem (e.g. "executor", "queue").
type Factory func(subsystem string) Log

type logrusLog struct {
	entry *logrus.Entry
}

func (l *logrusLog) WithField(key string, value interface{}) Log {
	return &logrusLog{entry: l.entry.WithField(key, sanitize(value))}
}

func (l *logrusLog) WithFields(fields Fields) Log {
	sanitized := make(logrus.Fields, len(fields))
	for k, v := range fields {
		sanitized[k] = sanitize(v)
	}
	return &logrusLog{entry: l.entry.WithFields(sanitized)}
}

func (l *logrusLog) WithError(err error) Log {
	return &logrusLog{entry: l.entry.WithError(err)}
}

func (l *logrusLog) Trace(args ...interface{}) { l.entry.Trace(args...) }
func (l *logrusLog) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusLog) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *logrusLog) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusLog) Error(args ...interface{}) { l.entry.Error(args...) }

// sanitize replaces a Sensitive value with its redacted form so it can never
// reach a formatter, text or JSON, regardless of call site discipline.
func sanitize(value interface{}) interface{} {
	if s, ok := value.(Sensitive); ok {
		return s.String()
	}
	return value
}

// MakeFactory returns a Factory writing to stdout: text formatting when
// stdout is a terminal, JSON otherwise.
func MakeFactory(registry *Registry) Factory {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
	return func(subsystem string) Log {
		// One logrus.Logger per subsystem so each keeps its own level;
		// they share the output and formatter.
		l := logrus.New()
		l.SetOutput(base.Out)
		l.SetFormatter(base.Formatter)
		l.SetLevel(registry.LevelFor(subsystem))
		entry := logrus.NewEntry(l).WithField("subsystem", subsystem)
		return &logrusLog{entry: entry}
	}
}
