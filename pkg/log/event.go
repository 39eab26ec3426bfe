package log

import (
	"strings"
	"time"
)

// Event is one trace record of a reader or writer run.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the reader or writer call (UUID).
	RunID string `cbor:"2,keyasint"`

	// Operation is read or write.
	Operation Operation `cbor:"3,keyasint"`

	// Format is the document format name (json, yaml, cbor).
	Format string `cbor:"4,keyasint,omitempty"`

	// Path is the file being read or written.
	Path string `cbor:"5,keyasint,omitempty"`

	// Stage is the pipeline stage the event belongs to.
	Stage Stage `cbor:"6,keyasint"`

	// Status is the stage outcome.
	Status Status `cbor:"7,keyasint"`

	// Elapsed is the time since the run began.
	Elapsed time.Duration `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Notice  *NoticeEvent    `cbor:"9,keyasint,omitempty"`  // Dropped input
	Summary *SummaryEvent   `cbor:"10,keyasint,omitempty"` // End of a successful run
	Error   *ErrorEventData `cbor:"11,keyasint,omitempty"` // Failed stage
}

// Operation distinguishes reader and writer runs.
type Operation uint8

const (
	// OperationRead is a reader run.
	OperationRead Operation = 0
	// OperationWrite is a writer run.
	OperationWrite Operation = 1
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OperationRead:
		return "READ"
	case OperationWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Stage is a step of the read or write pipeline.
type Stage uint8

const (
	StageBegin             Stage = 0
	StageOpenFile          Stage = 1
	StageReadConfiguration Stage = 2
	StageReadRegisters     Stage = 3
	StagePrepareData       Stage = 4
	StageSaveData          Stage = 5
	StageEnd               Stage = 6
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageBegin:
		return "BEGIN"
	case StageOpenFile:
		return "OPEN_FILE"
	case StageReadConfiguration:
		return "READ_CONFIGURATION"
	case StageReadRegisters:
		return "READ_REGISTERS"
	case StagePrepareData:
		return "PREPARE_DATA"
	case StageSaveData:
		return "SAVE_DATA"
	case StageEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Label returns the operator-facing stage label.
func (s Stage) Label() string {
	switch s {
	case StageOpenFile:
		return "Open file"
	case StageReadConfiguration:
		return "Read configuration"
	case StageReadRegisters:
		return "Read registers"
	case StagePrepareData:
		return "Prepare data"
	case StageSaveData:
		return "Save data to file"
	default:
		return s.String()
	}
}

// ParseStage parses a stage name as returned by String, case-insensitive.
func ParseStage(s string) (Stage, bool) {
	for st := StageBegin; st <= StageEnd; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, true
		}
	}
	return 0, false
}

// Status is the outcome recorded by an event.
type Status uint8

const (
	// StatusStarted marks the start of a stage.
	StatusStarted Status = 0
	// StatusOK marks a stage that completed.
	StatusOK Status = 1
	// StatusFailed marks a stage that aborted the run.
	StatusFailed Status = 2
	// StatusNotice marks input that was dropped but did not fail the run.
	StatusNotice Status = 3
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "STARTED"
	case StatusOK:
		return "OK"
	case StatusFailed:
		return "FAILED"
	case StatusNotice:
		return "NOTICE"
	default:
		return "UNKNOWN"
	}
}

// NoticeEvent describes input the reader dropped.
type NoticeEvent struct {
	// Register is the register whose record held the key.
	Register string `cbor:"1,keyasint,omitempty"`

	// BitField is the bit field whose record held the key.
	BitField string `cbor:"2,keyasint,omitempty"`

	// Key is the dropped record key.
	Key string `cbor:"3,keyasint,omitempty"`

	// Message is a human-readable explanation.
	Message string `cbor:"4,keyasint"`
}

// SummaryEvent describes the model handled by a successful run.
type SummaryEvent struct {
	// Name and Version of the register map.
	Name    string `cbor:"1,keyasint,omitempty"`
	Version string `cbor:"2,keyasint,omitempty"`

	// Registers is the number of registers.
	Registers int `cbor:"3,keyasint"`

	// BitFields is the number of bit fields across all registers.
	BitFields int `cbor:"4,keyasint"`

	// Bytes is the document size.
	Bytes int `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures the error that aborted a run.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Kind is the error class (e.g. "parse", "io", "missing field").
	Kind string `cbor:"2,keyasint,omitempty"`
}
