// Package persist stores catalog metadata records durably in SQLite.
//
// The Store keeps one row per item id carrying the serialized metadata record
// plus bookkeeping timestamps. The library commits through Save before it
// swaps its in-memory mapping, so the database never lags a published record;
// Load and LoadAll hydrate the catalog at daemon startup.
//
// Schema changes are applied through embedded migrations on open. The
// database is the single durable home for user-authored data (favorites,
// ratings, bookmarks); treat Save failures as commit failures.
package persist
