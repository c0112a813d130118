// Package api defines wire-format types and converters for the IPC layer.
// It translates internal catalog models into transport-friendly DTOs so the
// CLI and other consumers can render items without coupling to internal
// types.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Durations cross the wire as integer seconds to stay readable in raw JSON.
package api
