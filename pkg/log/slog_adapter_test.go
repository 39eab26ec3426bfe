package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func newJSONSlog(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	if buf.Len() == 0 {
		t.Fatal("no output produced")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	return entry
}

func TestSlogAdapterLogsStageEvent(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlog(&buf))

	adapter.Log(Event{
		Timestamp: time.Now(),
		RunID:     "run-123",
		Operation: OperationRead,
		Format:    "yaml",
		Path:      "map.yaml",
		Stage:     StageReadConfiguration,
		Status:    StatusOK,
		Elapsed:   time.Millisecond,
	})

	entry := decodeLogLine(t, &buf)
	want := map[string]any{
		"level":  "DEBUG",
		"run_id": "run-123",
		"op":     "READ",
		"stage":  "READ_CONFIGURATION",
		"status": "OK",
		"format": "yaml",
		"path":   "map.yaml",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogAdapterLogsNoticeAtWarn(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlog(&buf))

	adapter.Log(Event{
		RunID:  "run-1",
		Stage:  StageReadRegisters,
		Status: StatusNotice,
		Notice: &NoticeEvent{Register: "CTRL", Key: "reset", Message: "dropped unknown key"},
	})

	entry := decodeLogLine(t, &buf)
	if entry["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", entry["level"])
	}
	if entry["register"] != "CTRL" || entry["key"] != "reset" {
		t.Errorf("notice attrs: got register=%v key=%v", entry["register"], entry["key"])
	}
	if _, ok := entry["bit_field"]; ok {
		t.Error("bit_field should be omitted when empty")
	}
}

func TestSlogAdapterLogsSummaryAndError(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(newJSONSlog(&buf))

	adapter.Log(Event{Stage: StageEnd, Status: StatusOK,
		Summary: &SummaryEvent{Name: "dma", Version: "2", Registers: 3, BitFields: 7}})
	entry := decodeLogLine(t, &buf)
	if entry["registers"] != float64(3) || entry["bit_fields"] != float64(7) {
		t.Errorf("summary attrs: got %v/%v", entry["registers"], entry["bit_fields"])
	}

	buf.Reset()
	adapter.Log(Event{Stage: StageSaveData, Status: StatusFailed,
		Error: &ErrorEventData{Message: "permission denied", Kind: "io"}})
	entry = decodeLogLine(t, &buf)
	if entry["error"] != "permission denied" || entry["error_kind"] != "io" {
		t.Errorf("error attrs: got %v/%v", entry["error"], entry["error_kind"])
	}
}

func TestSlogAdapterInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
