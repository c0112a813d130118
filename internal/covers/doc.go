// Package covers stores cover images on local disk. Every install produces a
// uniquely named file, so a cover update always changes the stored path and
// path-keyed image caches cannot serve the stale bytes.
package covers
