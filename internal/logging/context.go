package logging

import (
	"context"
	"log/slog"

	"listenrate/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized key for the session identifier.
	FieldSessionID = "session_id"
	// FieldTrial is the standardized key for the 1-based presentation position.
	FieldTrial = "trial"
	// FieldStimulus is the standardized key for the true stimulus index.
	FieldStimulus = "stimulus"
	// FieldEventType tags log lines that record a discrete trial or session event.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.SessionIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if setNo, ok := services.TrialFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldTrial, setNo))
	}
	if stim, ok := services.StimulusFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldStimulus, stim))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
