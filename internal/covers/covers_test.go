package covers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/covers"
	"folio/internal/logging"
)

func newStore(t *testing.T) *covers.FileStore {
	t.Helper()
	store, err := covers.NewFileStore(filepath.Join(t.TempDir(), "covers"), logging.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestInstallFromLocalFile(t *testing.T) {
	store := newStore(t)
	source := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(source, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	stored, err := store.Install(context.Background(), source)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if filepath.Dir(stored) != store.Dir() {
		t.Fatalf("stored outside store dir: %s", stored)
	}
	if !strings.HasSuffix(stored, ".png") {
		t.Fatalf("extension not preserved: %s", stored)
	}
	data, err := os.ReadFile(stored)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("stored bytes wrong: %q %v", data, err)
	}
}

func TestInstallFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	store := newStore(t)
	stored, err := store.Install(context.Background(), server.URL+"/b/id/12345-L.jpg")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	data, err := os.ReadFile(stored)
	if err != nil || string(data) != "jpeg-bytes" {
		t.Fatalf("stored bytes wrong: %q %v", data, err)
	}
}

func TestInstallHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := newStore(t)
	if _, err := store.Install(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Fatal("expected error for 404")
	}

	// No partial files may remain.
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("leftover files after failed install: %v", entries)
	}
}

func TestInstallProducesUniquePaths(t *testing.T) {
	store := newStore(t)
	source := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := store.Install(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Install(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("installs must produce distinct paths")
	}
}

func TestRemoveOnlyInsideStore(t *testing.T) {
	store := newStore(t)
	source := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stored, err := store.Install(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(stored); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatal("stored cover not removed")
	}

	// Outside paths and URLs are ignored, and the source must survive.
	if err := store.Remove(source); err != nil {
		t.Fatalf("Remove outside store: %v", err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatal("file outside store was removed")
	}
	if err := store.Remove("https://covers.example/1.jpg"); err != nil {
		t.Fatalf("Remove URL: %v", err)
	}

	// Removing an already absent stored path is a no-op.
	if err := store.Remove(stored); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
}
