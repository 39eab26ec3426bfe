package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A trace file is a plain sequence of CBOR-encoded events. Each reader or
// writer call appends one run: BEGIN, its stage events, then END or the
// FAILED stage.

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

// ErrInvalidEvent reports a record that decodes but is not a trace event
// this package produces.
var ErrInvalidEvent = errors.New("invalid trace event")

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	traceEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	traceDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create trace CBOR decoder mode: %v", err))
	}
}

// check validates the enums and that the payload fits the status: an
// error only on a failed stage, a notice only on a notice, a summary
// only on the END stage.
func (e Event) check() error {
	switch {
	case e.Operation > OperationWrite:
		return fmt.Errorf("%w: operation %d", ErrInvalidEvent, e.Operation)
	case e.Stage > StageEnd:
		return fmt.Errorf("%w: stage %d", ErrInvalidEvent, e.Stage)
	case e.Status > StatusNotice:
		return fmt.Errorf("%w: status %d", ErrInvalidEvent, e.Status)
	case e.Error != nil && e.Status != StatusFailed:
		return fmt.Errorf("%w: error payload on %s event", ErrInvalidEvent, e.Status)
	case e.Notice != nil && e.Status != StatusNotice:
		return fmt.Errorf("%w: notice payload on %s event", ErrInvalidEvent, e.Status)
	case e.Summary != nil && e.Stage != StageEnd:
		return fmt.Errorf("%w: summary payload on %s stage", ErrInvalidEvent, e.Stage)
	}
	return nil
}

// EncodeEvent encodes an Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	if err := event.check(); err != nil {
		return nil, err
	}
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := event.check(); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for trace events that writes to w.
// It does not validate events; FileLogger does.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for trace events that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
