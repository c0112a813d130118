package testsupport

import (
	"testing"

	"folio/internal/config"
	"folio/internal/library"
	"folio/internal/persist"
)

// MustOpenStore opens the catalog database for the given config and fails
// the test on error. The store is closed automatically during cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *persist.Store {
	t.Helper()
	store, err := persist.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open persist store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close persist store: %v", err)
		}
	})
	return store
}

// NewLibrary builds a library store backed by a real persist store, with any
// remaining collaborators supplied by the caller.
func NewLibrary(t testing.TB, cfg *config.Config, opts library.Options) *library.Store {
	t.Helper()
	if opts.Persister == nil {
		opts.Persister = MustOpenStore(t, cfg)
	}
	return library.NewStore(opts)
}
