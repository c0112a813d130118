package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"folio/internal/catalog"
	"folio/internal/logging"
	"folio/internal/reconcile"
)

type fakeProvider struct {
	results   []*catalog.Metadata
	covers    []string
	err       error
	coversErr error
	lastQuery string
	block     chan struct{}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]*catalog.Metadata, error) {
	f.lastQuery = query
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeProvider) SearchCovers(ctx context.Context, record *catalog.Metadata) ([]string, error) {
	if f.coversErr != nil {
		return nil, f.coversErr
	}
	return f.covers, nil
}

func TestReconcileSuccess(t *testing.T) {
	provider := &fakeProvider{results: []*catalog.Metadata{
		{Title: "Dune Messiah", Authors: []string{"Frank Herbert"}, Description: "Sequel to Dune"},
	}}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	current := &catalog.Metadata{Title: "Dune", Favorite: true}
	result, err := engine.Reconcile(context.Background(), current, "dune", reconcile.ModeEnhance, false)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Title != "Dune" {
		t.Fatalf("enhance should keep title: %q", result.Title)
	}
	if result.PrimaryAuthor() != "Frank Herbert" {
		t.Fatalf("author should fill in: %v", result.Authors)
	}
	if !result.Favorite {
		t.Fatal("user data lost across reconcile")
	}
	if result == current {
		t.Fatal("result must be a fresh instance")
	}
}

func TestReconcileDefaultsQueryFromRecord(t *testing.T) {
	provider := &fakeProvider{results: []*catalog.Metadata{{Title: "X"}}}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	current := &catalog.Metadata{Title: "Project Hail Mary", Authors: []string{"Andy Weir"}}
	if _, err := engine.Reconcile(context.Background(), current, "", reconcile.ModeUpdate, false); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if provider.lastQuery != "Project Hail Mary Andy Weir" {
		t.Fatalf("unexpected default query: %q", provider.lastQuery)
	}
}

func TestReconcileNoQueryPossible(t *testing.T) {
	engine := reconcile.NewEngine(&fakeProvider{}, logging.NewNop())
	_, err := engine.Reconcile(context.Background(), &catalog.Metadata{}, "", reconcile.ModeEnhance, false)
	if !errors.Is(err, reconcile.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestReconcileProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	result, err := engine.Reconcile(context.Background(), &catalog.Metadata{Title: "Dune"}, "dune", reconcile.ModeEnhance, false)
	if !errors.Is(err, reconcile.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	if result != nil {
		t.Fatalf("failed reconcile must not produce a record: %+v", result)
	}
}

func TestReconcileEmptyResults(t *testing.T) {
	provider := &fakeProvider{results: nil}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	_, err := engine.Reconcile(context.Background(), &catalog.Metadata{Title: "Dune"}, "dune", reconcile.ModeEnhance, false)
	if !errors.Is(err, reconcile.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestReconcileSkipsEmptyCandidates(t *testing.T) {
	provider := &fakeProvider{results: []*catalog.Metadata{
		{},
		{Title: "Real Result"},
	}}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	result, err := engine.Reconcile(context.Background(), &catalog.Metadata{}, "q", reconcile.ModeUpdate, false)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.Title != "Real Result" {
		t.Fatalf("expected first usable candidate, got %q", result.Title)
	}
}

func TestReconcileCancelledDuringSearch(t *testing.T) {
	provider := &fakeProvider{block: make(chan struct{})}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Reconcile(ctx, &catalog.Metadata{Title: "Dune"}, "dune", reconcile.ModeEnhance, false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Fatalf("cancelled reconcile must not produce a record: %+v", result)
	}
}

func TestSearchCovers(t *testing.T) {
	provider := &fakeProvider{covers: []string{"https://covers.example/1.jpg"}}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	urls := engine.SearchCovers(context.Background(), &catalog.Metadata{Title: "Dune"})
	if len(urls) != 1 {
		t.Fatalf("unexpected covers: %v", urls)
	}
}

func TestSearchCoversFailureReturnsNil(t *testing.T) {
	provider := &fakeProvider{coversErr: errors.New("upstream down")}
	engine := reconcile.NewEngine(provider, logging.NewNop())

	if urls := engine.SearchCovers(context.Background(), &catalog.Metadata{Title: "Dune"}); urls != nil {
		t.Fatalf("expected nil on failure, got %v", urls)
	}
}
