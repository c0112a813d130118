// Package logging assembles the structured slog loggers used across folio.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus a no-op logger for tests and
// wiring code that cannot fail. Components receive a logger tagged with their
// name via NewComponentLogger so every line identifies its origin.
//
// Prefer these constructors over hand-rolled slog setup so all components
// emit data with the same shape.
package logging
