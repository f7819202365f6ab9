// Package logging assembles the structured slog loggers shared by mediasort
// components.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes context-aware helpers so executor code automatically tags log lines
// with the run identifier and the source path in flight. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
