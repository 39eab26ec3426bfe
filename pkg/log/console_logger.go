package log

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleLogger prints operator progress lines, one per finished stage:
//
//	Read 'map.yaml' CSR map file with yaml reader:
//	  Open file ... OK
//	  Read configuration ... OK
//	  Read registers ... OK
type ConsoleLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to w.
func NewConsoleLogger(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{w: w}
}

// Log prints the event if it is visible to operators.
func (c *ConsoleLogger) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case event.Stage == StageBegin:
		if event.Operation == OperationRead {
			fmt.Fprintf(c.w, "Read '%s' CSR map file with %s reader:\n", event.Path, event.Format)
		} else {
			fmt.Fprintf(c.w, "Write '%s' file with %s writer:\n", event.Path, event.Format)
		}
	case event.Stage == StageEnd:
		// The last stage line already reported the outcome.
	case event.Status == StatusOK:
		fmt.Fprintf(c.w, "  %s ... OK\n", event.Stage.Label())
	case event.Status == StatusFailed:
		msg := ""
		if event.Error != nil {
			msg = event.Error.Message
		}
		fmt.Fprintf(c.w, "  %s ... FAILED: %s\n", event.Stage.Label(), msg)
	case event.Status == StatusNotice && event.Notice != nil:
		fmt.Fprintf(c.w, "  ! %s\n", event.Notice.Message)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*ConsoleLogger)(nil)
