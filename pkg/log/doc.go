// Package log provides structured tracing of CSR map reader and writer runs.
//
// Every call to a reader or writer is a run with its own run ID. A run
// emits an Event when it begins, when each stage starts and finishes,
// when input is dropped under the lenient key policy, and when it ends.
// This is separate from operational logging (slog): the trace is a
// machine-readable record of what a conversion did.
//
// # Basic Usage
//
//	// Operator progress lines on stderr
//	reader.Logger = log.NewConsoleLogger(os.Stderr)
//
//	// Into slog at debug level
//	reader.Logger = log.NewSlogAdapter(slog.Default())
//
//	// Append to a binary trace file
//	fl, _ := log.NewFileLogger("conversions.clog")
//	reader.Logger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Stages
//
// Readers go through StageOpenFile, StageReadConfiguration and
// StageReadRegisters. Writers go through StagePrepareData and
// StageSaveData. StageBegin and StageEnd bracket every run.
//
// # File Format
//
// Trace files are a sequence of CBOR-encoded events (.clog). Use Reader
// with a Filter to read them back, or the "csrmap trace" command.
package log
