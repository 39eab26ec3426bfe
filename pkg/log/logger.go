package log

// Logger receives the trace events of reader and writer runs. Pass nil or
// NoopLogger to disable tracing.
type Logger interface {
	// Log records a trace event. Implementations must be thread-safe
	// and must not block the run.
	Log(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(Event)

// Log calls f(event).
func (f LoggerFunc) Log(event Event) {
	f(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
)
