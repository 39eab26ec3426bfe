package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends trace events to a .clog file. The file is synced
// whenever a run finishes (END or a failed stage), so a crash loses at
// most the run in progress. It is safe for concurrent use.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
	err     error
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// Log appends an event. Failures never reach the caller of a reader or
// writer; the first one is kept and reported by Err and Close.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := event.check(); err != nil {
		l.fail(err)
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.fail(err)
		return
	}
	if event.Stage == StageEnd || event.Status == StatusFailed {
		if err := l.file.Sync(); err != nil {
			l.fail(err)
		}
	}
}

func (l *FileLogger) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// Err returns the first error met while writing events, or nil.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close closes the trace file and returns the first write error, if any,
// or the error from closing. Later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	closeErr := l.file.Close()
	if l.err != nil {
		return l.err
	}
	return closeErr
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
