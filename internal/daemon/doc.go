// Package daemon coordinates the catalog services and enforces
// single-instance execution via a file lock. It owns the scanner lifecycle
// and exposes the operation surface the IPC layer forwards to.
package daemon
