// Package logging assembles the structured slog loggers used across winnow.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that cannot
// fail. Log lines go to stderr by default so scan results on stdout stay
// machine-readable.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
