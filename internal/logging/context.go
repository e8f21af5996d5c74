package logging

import (
	"context"
	"log/slog"

	"reframe/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldClipID is the standardized structured logging key for clip job identifiers.
	FieldClipID = "clip_id"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldInput is the standardized structured logging key for input media paths.
	FieldInput = "input"
	// FieldOutput is the standardized structured logging key for output media paths.
	FieldOutput = "output"
	// FieldEngine is the standardized structured logging key for stabilizer engine names.
	FieldEngine = "engine"
	// FieldMethod is the standardized structured logging key for extraction method names.
	FieldMethod = "method"
	// FieldFrames is the standardized structured logging key for frame counts.
	FieldFrames = "frames"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.ClipIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldClipID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
