// Package tracker provides single-flight admission control over the set of
// catalog item ids currently being mutated.
//
// TryBegin/End bracket every library mutation: only one in-flight operation
// per id is admitted at a time, and the current in-flight set is observable
// through a non-blocking subscription feed so consumers can render busy
// indicators without polling.
//
// The tracker holds no reference to library state; it is purely a membership
// set with change notification.
package tracker
