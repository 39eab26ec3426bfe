package log

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		RunID:     "abc12345-def6-7890-abcd-ef1234567890",
		Operation: OperationWrite,
		Format:    "json",
		Path:      "/tmp/map.json",
		Stage:     StageEnd,
		Status:    StatusOK,
		Elapsed:   1500 * time.Microsecond,
		Summary:   &SummaryEvent{Name: "uart", Version: "1.2", Registers: 4, BitFields: 11, Bytes: 2048},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.RunID != original.RunID {
		t.Errorf("RunID: got %q, want %q", decoded.RunID, original.RunID)
	}
	if decoded.Operation != original.Operation || decoded.Stage != original.Stage || decoded.Status != original.Status {
		t.Errorf("got %v/%v/%v, want %v/%v/%v", decoded.Operation, decoded.Stage, decoded.Status,
			original.Operation, original.Stage, original.Status)
	}
	if decoded.Elapsed != original.Elapsed {
		t.Errorf("Elapsed: got %v, want %v", decoded.Elapsed, original.Elapsed)
	}
	if decoded.Summary == nil || *decoded.Summary != *original.Summary {
		t.Errorf("Summary: got %+v, want %+v", decoded.Summary, original.Summary)
	}
	if decoded.Notice != nil || decoded.Error != nil {
		t.Error("unset payloads should decode as nil")
	}
}

func TestEventCBORErrorPayload(t *testing.T) {
	original := Event{
		RunID:  "r",
		Stage:  StageReadRegisters,
		Status: StatusFailed,
		Error:  &ErrorEventData{Message: `register "CTRL": duplicate address`, Kind: "duplicate address"},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Error == nil || *decoded.Error != *original.Error {
		t.Errorf("Error: got %+v, want %+v", decoded.Error, original.Error)
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(Event{RunID: "stream", Stage: Stage(i)}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var e Event
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("Decode %d failed: %v", i, err)
		}
		if e.Stage != Stage(i) {
			t.Errorf("event %d: Stage = %v", i, e.Stage)
		}
	}
}

func TestDecodeEventInvalid(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestEncodeEventRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"operation", Event{Operation: Operation(7)}},
		{"stage", Event{Stage: Stage(42)}},
		{"status", Event{Status: Status(9)}},
		{"error on ok", Event{Status: StatusOK, Error: &ErrorEventData{Message: "x"}}},
		{"notice on started", Event{Status: StatusStarted, Notice: &NoticeEvent{Message: "x"}}},
		{"summary before end", Event{Stage: StageSaveData, Status: StatusOK, Summary: &SummaryEvent{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeEvent(tt.event); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("EncodeEvent error = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestDecodeEventRejectsUnknownStage(t *testing.T) {
	// Encoded without validation, as a foreign writer would.
	data, err := traceEncMode.Marshal(Event{RunID: "r", Stage: Stage(42)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if _, err := DecodeEvent(data); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("DecodeEvent error = %v, want ErrInvalidEvent", err)
	}
}
