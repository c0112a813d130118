// Package library owns the in-memory catalog: the id-to-item map, its
// single-flight mutation discipline, and the change feeds observers consume.
//
// Every mutation follows the same template: admit through the update tracker,
// compute a fresh record without touching shared state, persist it durably,
// and only then swap the map entry. A persistence failure aborts the commit
// with the in-memory catalog untouched, so readers never observe a record
// that is not on disk.
package library
