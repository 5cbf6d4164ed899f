// Package logging assembles the structured slog loggers used across
// mylarsensor.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes component-logger and field-key helpers so the
// pipeline tags log lines consistently. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
