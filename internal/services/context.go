package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	trialKey     contextKey = "trial"
	stimulusKey  contextKey = "stimulus"
)

// WithSessionID annotates context with the session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTrial annotates context with the 1-based presentation position and the
// true stimulus index of the running trial.
func WithTrial(ctx context.Context, setNo, stimulus int) context.Context {
	ctx = context.WithValue(ctx, trialKey, setNo)
	return context.WithValue(ctx, stimulusKey, stimulus)
}

// TrialFromContext returns the presentation position if present.
func TrialFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(trialKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// StimulusFromContext returns the true stimulus index if present.
func StimulusFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(stimulusKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
