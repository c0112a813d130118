package persist_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/catalog"
	"folio/internal/persist"
)

func openStore(t *testing.T) *persist.Store {
	t.Helper()
	store, err := persist.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("persist.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	meta := &catalog.Metadata{
		Title:            "Dune",
		Authors:          []string{"Frank Herbert"},
		Favorite:         true,
		UserRating:       5,
		PlaybackPosition: 90 * time.Second,
		Bookmarks:        []catalog.Bookmark{{Position: time.Minute, Label: "start"}},
	}

	if err := store.Save(ctx, "/books/dune.m4b", meta); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "/books/dune.m4b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored record")
	}
	if loaded.Title != "Dune" || !loaded.Favorite || loaded.UserRating != 5 {
		t.Fatalf("unexpected record: %+v", loaded)
	}
	if len(loaded.Bookmarks) != 1 || loaded.Bookmarks[0].Label != "start" {
		t.Fatalf("bookmarks lost: %+v", loaded.Bookmarks)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	store := openStore(t)

	loaded, err := store.Load(context.Background(), "/books/absent.m4b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for missing id, got %+v", loaded)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "/books/a.m4b", &catalog.Metadata{Title: "First"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, "/books/a.m4b", &catalog.Metadata{Title: "Second"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "/books/a.m4b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != "Second" {
		t.Fatalf("expected replacement, got %q", loaded.Title)
	}
}

func TestLoadAll(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ids := []string{"/books/a.m4b", "/books/b.m4b", "/books/c.m4b"}
	for i, id := range ids {
		if err := store.Save(ctx, id, &catalog.Metadata{RatingsCount: i}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	records, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(records))
	}
	for _, id := range ids {
		if records[id] == nil {
			t.Fatalf("missing record for %s", id)
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "/books/a.m4b", &catalog.Metadata{Title: "Gone"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "/books/a.m4b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "/books/a.m4b"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	loaded, err := store.Load(ctx, "/books/a.m4b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Fatal("record should be gone")
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")
	ctx := context.Background()

	store, err := persist.Open(path)
	if err != nil {
		t.Fatalf("persist.Open: %v", err)
	}
	if err := store.Save(ctx, "/books/a.m4b", &catalog.Metadata{Title: "Persisted"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := persist.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "/books/a.m4b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.Title != "Persisted" {
		t.Fatalf("data lost across reopen: %+v", loaded)
	}
}
