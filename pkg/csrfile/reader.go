package csrfile

import (
	"fmt"
	"os"

	"github.com/csrmap/csrmap-go/pkg/log"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Reader reads CSR map description files.
// A Reader holds only options and may be reused and shared.
type Reader struct {
	// Format selects the grammar. FormatAuto uses the file extension.
	Format Format

	// Strict rejects unknown keys instead of dropping them.
	Strict bool

	// Logger receives trace events. Nil disables tracing.
	Logger log.Logger
}

// NewReader creates a lenient Reader that detects the format from the
// file extension.
func NewReader() *Reader {
	return &Reader{Format: FormatAuto}
}

// ReadFile reads and validates the register map stored at path.
func (r *Reader) ReadFile(path string) (*regmap.RegisterMap, error) {
	format, err := r.Format.resolve(path)
	if err != nil {
		return nil, err
	}

	run := log.NewRun(r.Logger, log.OperationRead, format.String(), path)

	run.Start(log.StageOpenFile)
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrIO, err)
		return nil, run.Fail(log.StageOpenFile, ErrorKind(err), err)
	}
	m, err := r.read(run, format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadBytes reads and validates a register map from an in-memory
// document. format must not be FormatAuto.
func (r *Reader) ReadBytes(data []byte, format Format) (*regmap.RegisterMap, error) {
	if _, err := format.grammar(); err != nil {
		return nil, err
	}
	run := log.NewRun(r.Logger, log.OperationRead, format.String(), "")
	run.Start(log.StageOpenFile)
	return r.read(run, format, data)
}

// read runs the parse, configuration and register stages. The
// StageOpenFile stage must already be started.
func (r *Reader) read(run *log.Run, format Format, data []byte) (*regmap.RegisterMap, error) {
	doc, err := decodeDocument(format, data)
	if err != nil {
		return nil, run.Fail(log.StageOpenFile, ErrorKind(err), err)
	}
	run.OK(log.StageOpenFile)

	b := builder{opts: BuildOptions{
		Strict: r.Strict,
		OnDrop: func(n log.NoticeEvent) { run.Notice(log.StageReadRegisters, n) },
	}}

	run.Start(log.StageReadConfiguration)
	config, err := b.configuration(doc)
	if err != nil {
		return nil, run.Fail(log.StageReadConfiguration, ErrorKind(err), err)
	}
	run.OK(log.StageReadConfiguration)

	run.Start(log.StageReadRegisters)
	m, err := b.registerMap(doc, config)
	if err != nil {
		return nil, run.Fail(log.StageReadRegisters, ErrorKind(err), err)
	}
	run.OK(log.StageReadRegisters)

	run.Done(log.SummaryEvent{
		Name:      m.Name(),
		Version:   m.Version(),
		Registers: m.Len(),
		BitFields: m.BitFieldCount(),
		Bytes:     len(data),
	})
	return m, nil
}

// ReadFile reads path with a default Reader.
func ReadFile(path string) (*regmap.RegisterMap, error) {
	return NewReader().ReadFile(path)
}
