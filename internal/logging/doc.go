// Package logging assembles structured slog loggers and formatting helpers used
// across listenrate.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so session and trial code can
// automatically tag log lines with the session ID, the presentation position,
// and the true stimulus index. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
