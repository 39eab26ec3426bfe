package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Stage events go out at Debug level, notices at Warn.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("op", event.Operation.String()),
		slog.String("stage", event.Stage.String()),
		slog.String("status", event.Status.String()),
	}

	if event.Format != "" {
		attrs = append(attrs, slog.String("format", event.Format))
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}
	if event.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", event.Elapsed))
	}

	level := slog.LevelDebug
	switch {
	case event.Notice != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("notice", event.Notice.Message))
		if event.Notice.Register != "" {
			attrs = append(attrs, slog.String("register", event.Notice.Register))
		}
		if event.Notice.BitField != "" {
			attrs = append(attrs, slog.String("bit_field", event.Notice.BitField))
		}
		if event.Notice.Key != "" {
			attrs = append(attrs, slog.String("key", event.Notice.Key))
		}
	case event.Summary != nil:
		attrs = append(attrs,
			slog.String("map", event.Summary.Name),
			slog.String("version", event.Summary.Version),
			slog.Int("registers", event.Summary.Registers),
			slog.Int("bit_fields", event.Summary.BitFields),
		)
		if event.Summary.Bytes > 0 {
			attrs = append(attrs, slog.Int("bytes", event.Summary.Bytes))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Kind != "" {
			attrs = append(attrs, slog.String("error_kind", event.Error.Kind))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "csrmap", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
