// Package openlibrary implements the metadata provider contract against the
// Open Library search API.
//
// The Client issues bounded JSON searches, maps result documents onto catalog
// metadata records, and derives cover-art URLs from Open Library cover ids.
// It enforces its own request timeout so callers never hang on a slow
// upstream.
package openlibrary
