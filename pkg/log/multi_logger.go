package log

// MultiLogger fans each event out to several loggers, typically the
// SlogAdapter, a FileLogger and, with -progress, a ConsoleLogger.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped and the
// loggers of a nested MultiLogger are taken over directly, so wrapping a
// tracer again to add a collector does not deepen the call chain.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		switch l := l.(type) {
		case nil:
		case *MultiLogger:
			if l != nil {
				m.loggers = append(m.loggers, l.loggers...)
			}
		default:
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the event to all loggers in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Len returns the number of loggers events are sent to.
func (m *MultiLogger) Len() int {
	return len(m.loggers)
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
