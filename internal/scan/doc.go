// Package scan discovers audiobook files: an initial recursive walk of the
// library directory plus incremental filesystem watching.
package scan
