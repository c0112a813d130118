// Package reconcile merges externally sourced metadata candidates into
// existing catalog records.
//
// The pure merge policies (enhance, update, replace) decide field-by-field
// which side wins; user-owned fields always come from the current record, so
// no reconciliation can destroy favorites, ratings, bookmarks, notes, or
// playback state. The Engine wraps the policies with provider search
// orchestration: each call walks Idle -> Searching -> Merging and terminates
// in Done, Failed, or Cancelled. Only the Searching phase performs I/O and
// only it honors cancellation; merging is synchronous computation on values
// the caller already holds.
//
// Provider errors never escape as panics: they surface as an empty candidate
// set and a logged warning.
package reconcile
