package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	multi.Log(Event{Timestamp: time.Now(), RunID: "run-123", Stage: StageOpenFile})

	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].RunID != "run-123" {
			t.Errorf("logger %d: RunID = %q, want %q", i, mock.events[0].RunID, "run-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now(), RunID: "run-123"})
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(nil, mock, nil)

	multi.Log(Event{RunID: "run-456"})

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
}

func TestMultiLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*MultiLogger)(nil)
}

func TestMultiLoggerFlattensNested(t *testing.T) {
	inner1, inner2, outer := &mockLogger{}, &mockLogger{}, &mockLogger{}
	nested := NewMultiLogger(inner1, inner2)

	multi := NewMultiLogger(nested, outer, (*MultiLogger)(nil))
	if multi.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", multi.Len())
	}

	multi.Log(Event{RunID: "run-789"})
	for i, m := range []*mockLogger{inner1, inner2, outer} {
		if len(m.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(m.events))
		}
	}
}
