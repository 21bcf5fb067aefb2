package log

import "context"

// Fields is a collector of key value pairs that will be
// attached to a log line
type Fields interface {
	Add(key string, value interface{})
}

// Loggable is implemented by types that know how to
// report themselves into a set of log fields
type Loggable interface {
	Log(fields Fields)
}

// MapFields is the implementation of Loggable for a plain map
type MapFields map[string]interface{}

// Log is the implementation of Loggable for MapFields
func (m MapFields) Log(fields Fields) {
	for key, value := range m {
		fields.Add(key, value)
	}
}

// Logger is the logging interface used across the library. All
// methods receive a context from which a request identifier is
// extracted, if present
type Logger interface {
	// ForClass returns a derived logger annotated with the
	// package and type that will emit the log lines
	ForClass(pkg string, class string) Logger
	Debug(ctx context.Context, msg string, loggable ...Loggable)
	Info(ctx context.Context, msg string, loggable ...Loggable)
	Warn(ctx context.Context, msg string, loggable ...Loggable)
	Error(ctx context.Context, msg string, loggable ...Loggable)
}
