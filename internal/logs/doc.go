// Package logs reads the daemon log file for CLI display. It supports
// tail-last-N reads, offset-based incremental reads, and a polling follow
// loop, all with bounded memory usage.
package logs
