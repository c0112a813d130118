// Package catalog defines the immutable record model shared by the library
// store, the reconciliation engine, and the daemon surfaces.
//
// An Item tracks one audiobook file; its Metadata and FileMetadata fields are
// replaced wholesale on every commit, never mutated in place. Consumers detect
// change by pointer identity, so anything that derives a new record must go
// through Clone and publish a fresh value.
//
// Keep field semantics here in sync with the merge policies in the reconcile
// package: remote-sourced fields may be overwritten by reconciliation while
// user-owned fields change only through explicit user-data patches.
package catalog
