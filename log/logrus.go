package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusProperties define the behaviour of a logrus backed
// Logger
type LogrusProperties struct {
	Formatter logrus.Formatter
	Level     logrus.Level
	Output    io.Writer
}

// LogrusLogger is the logrus implementation of Logger. The zero
// value is not usable, use NewLogrus
type LogrusLogger struct {
	root  *logrus.Logger
	entry *logrus.Entry
}

// NewLogrus creates a new logger backed by a logrus instance
func NewLogrus(properties LogrusProperties) Logger {
	root := logrus.New()

	if properties.Formatter == nil {
		root.SetFormatter(&logrus.JSONFormatter{})
	} else {
		root.SetFormatter(properties.Formatter)
	}

	root.SetLevel(properties.Level)

	if properties.Output == nil {
		root.SetOutput(os.Stdout)
	} else {
		root.SetOutput(properties.Output)
	}

	return &LogrusLogger{root: root, entry: logrus.NewEntry(root)}
}

// ForClass is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) ForClass(pkg string, class string) Logger {
	return &LogrusLogger{
		root: l.root,
		entry: l.entry.WithFields(logrus.Fields{
			"pkg":   pkg,
			"class": class,
		}),
	}
}

// Debug is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Debug(ctx context.Context, msg string, loggables ...Loggable) {
	l.entry.WithFields(makeFields(ctx, loggables...)).Debug(msg)
}

// Info is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Info(ctx context.Context, msg string, loggables ...Loggable) {
	l.entry.WithFields(makeFields(ctx, loggables...)).Info(msg)
}

// Warn is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Warn(ctx context.Context, msg string, loggables ...Loggable) {
	l.entry.WithFields(makeFields(ctx, loggables...)).Warn(msg)
}

// Error is the implementation of Logger for LogrusLogger
func (l *LogrusLogger) Error(ctx context.Context, msg string, loggables ...Loggable) {
	l.entry.WithFields(makeFields(ctx, loggables...)).Error(msg)
}

func makeFields(ctx context.Context, loggables ...Loggable) logrus.Fields {
	fields := logrusFields{fields: logrus.Fields{}}

	for _, loggable := range loggables {
		loggable.Log(&fields)
	}

	if requestID := GetRequestID(ctx); len(requestID) > 0 {
		fields.Add("requestId", requestID)
	}

	return fields.fields
}

type logrusFields struct {
	fields logrus.Fields
}

func (f *logrusFields) Add(key string, value interface{}) {
	f.fields[key] = value
}
