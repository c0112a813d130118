// Package providers defines the metadata search contract consumed by the
// reconciliation engine.
//
// A Provider turns a free-text query into candidate metadata records and a
// record into ranked cover-art URLs. Implementations own their transport,
// timeout, and retry behavior; errors they return are converted to empty
// results at the reconciler boundary and never crash the daemon.
package providers
