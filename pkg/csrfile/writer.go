package csrfile

import (
	"fmt"
	"os"

	"github.com/csrmap/csrmap-go/pkg/log"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Writer writes CSR map description files.
// A Writer holds only options and may be reused and shared.
type Writer struct {
	// Format selects the grammar. FormatAuto uses the file extension.
	Format Format

	// Logger receives trace events. Nil disables tracing.
	Logger log.Logger
}

// NewWriter creates a Writer that picks the format from the file extension.
func NewWriter() *Writer {
	return &Writer{Format: FormatAuto}
}

// WriteFile writes m to path, replacing any existing file. The document
// is fully encoded before the file is opened. A failed write may leave a
// truncated file behind.
func (w *Writer) WriteFile(path string, m *regmap.RegisterMap) error {
	format, err := w.Format.resolve(path)
	if err != nil {
		return err
	}

	run := log.NewRun(w.Logger, log.OperationWrite, format.String(), path)

	run.Start(log.StagePrepareData)
	data, err := Encode(m, format)
	if err != nil {
		return run.Fail(log.StagePrepareData, ErrorKind(err), fmt.Errorf("%s: %w", path, err))
	}
	run.OK(log.StagePrepareData)

	run.Start(log.StageSaveData)
	if err := os.WriteFile(path, data, 0644); err != nil {
		err = fmt.Errorf("%w: %w", ErrIO, err)
		return run.Fail(log.StageSaveData, ErrorKind(err), err)
	}
	run.OK(log.StageSaveData)

	run.Done(log.SummaryEvent{
		Name:      m.Name(),
		Version:   m.Version(),
		Registers: m.Len(),
		BitFields: m.BitFieldCount(),
		Bytes:     len(data),
	})
	return nil
}

// Encode renders m in the given format without touching the filesystem.
func Encode(m *regmap.RegisterMap, format Format) ([]byte, error) {
	doc, err := Flatten(m)
	if err != nil {
		return nil, err
	}
	return encodeDocument(format, doc)
}

// WriteFile writes m to path with a default Writer.
func WriteFile(path string, m *regmap.RegisterMap) error {
	return NewWriter().WriteFile(path, m)
}
