package library

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"folio/internal/catalog"
	"folio/internal/logging"
	"folio/internal/reconcile"
	"folio/internal/tracker"
)

// Persister durably records committed metadata. internal/persist satisfies
// this with its SQLite store.
type Persister interface {
	Save(ctx context.Context, id string, meta *catalog.Metadata) error
	Delete(ctx context.Context, id string) error
}

// Reconciler searches a provider and merges the best candidate into the
// current record. internal/reconcile's Engine satisfies this.
type Reconciler interface {
	Reconcile(ctx context.Context, current *catalog.Metadata, query string, mode reconcile.Mode, withCover bool) (*catalog.Metadata, error)
	SearchCovers(ctx context.Context, record *catalog.Metadata) []string
}

// CoverStore transfers cover image bytes into local storage. Install returns
// the stored path; Remove is best-effort cleanup of a previously stored path.
type CoverStore interface {
	Install(ctx context.Context, source string) (string, error)
	Remove(path string) error
}

// Options collects the collaborators a Store needs. Reconciler and Covers may
// be nil when the corresponding entry points are unused (tests, tooling).
type Options struct {
	Persister  Persister
	Reconciler Reconciler
	Covers     CoverStore
	Tracker    *tracker.Tracker
	Logger     *slog.Logger

	// Hydrated seeds metadata loaded from persistence at startup, keyed by
	// item id. Consumed as matching paths are added by the scanner.
	Hydrated map[string]*catalog.Metadata
}

// Store is the catalog's single source of truth. Reads are synchronous and
// never fail; mutations are single-flight per item and commit only after a
// durable write.
//
// Items handed out by the store are frozen: commits swap in fresh Item values
// rather than mutating published ones, so a snapshot stays valid forever.
type Store struct {
	persister  Persister
	reconciler Reconciler
	covers     CoverStore
	tracker    *tracker.Tracker
	logger     *slog.Logger

	mu       sync.RWMutex
	items    map[string]*catalog.Item
	hydrated map[string]*catalog.Metadata

	subMu   sync.Mutex
	subs    map[int]chan []*catalog.Item
	nextSub int
}

// NewStore constructs an empty catalog store.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tr := opts.Tracker
	if tr == nil {
		tr = tracker.New()
	}
	hydrated := opts.Hydrated
	if hydrated == nil {
		hydrated = map[string]*catalog.Metadata{}
	}
	return &Store{
		persister:  opts.Persister,
		reconciler: opts.Reconciler,
		covers:     opts.Covers,
		tracker:    tr,
		logger:     logging.NewComponentLogger(logger, "library"),
		items:      make(map[string]*catalog.Item),
		hydrated:   hydrated,
		subs:       make(map[int]chan []*catalog.Item),
	}
}

// GetByID returns the item for id, or ErrNotFound. The returned item is
// frozen and safe to read without coordination.
func (s *Store) GetByID(id string) (*catalog.Item, error) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

// Snapshot returns every tracked item ordered by display name. The slice is
// a fresh copy; the items it references are frozen.
func (s *Store) Snapshot() []*catalog.Item {
	s.mu.RLock()
	items := make([]*catalog.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(a, b int) bool {
		na := strings.ToLower(items[a].DisplayName)
		nb := strings.ToLower(items[b].DisplayName)
		if na != nb {
			return na < nb
		}
		return items[a].ID < items[b].ID
	})
	return items
}

// Len returns the number of tracked items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IsUpdating reports whether the item currently has a mutation in flight.
func (s *Store) IsUpdating(id string) bool {
	return s.tracker.IsUpdating(id)
}

// Updating returns the sorted ids of items with mutations in flight.
func (s *Store) Updating() []string {
	return s.tracker.Updating()
}

// SubscribeUpdating exposes the tracker's in-flight feed.
func (s *Store) SubscribeUpdating() (<-chan []string, func()) {
	return s.tracker.Subscribe()
}

// SubscribeLibrary returns a feed of catalog snapshots, delivered after every
// committed change. Delivery is latest-wins: a slow consumer sees the newest
// snapshot, not every intermediate one. The cancel func closes the channel.
func (s *Store) SubscribeLibrary() (<-chan []*catalog.Item, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan []*catalog.Item, 1)
	s.subs[id] = ch
	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Store) publish() {
	snapshot := s.Snapshot()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Add registers a scanned file, refreshing filesystem fields if the path is
// already tracked. Newly added paths pick up metadata hydrated from
// persistence. Emits a library-changed snapshot.
func (s *Store) Add(ctx context.Context, item *catalog.Item) error {
	if item == nil || strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("add: item id required")
	}
	s.mu.Lock()
	if existing, ok := s.items[item.ID]; ok {
		updated := existing.Clone()
		updated.SizeBytes = item.SizeBytes
		updated.ModTime = item.ModTime
		if item.FileMetadata != nil {
			updated.FileMetadata = item.FileMetadata
		}
		s.items[item.ID] = updated
	} else {
		added := item.Clone()
		if added.DisplayName == "" {
			added.DisplayName = catalog.DisplayNameFromPath(added.ID)
		}
		if meta, ok := s.hydrated[added.ID]; ok {
			if added.Metadata == nil {
				added.Metadata = meta
			}
			delete(s.hydrated, added.ID)
		}
		s.items[added.ID] = added
	}
	s.mu.Unlock()
	s.publish()
	return nil
}

// Remove drops a tracked path and deletes its persisted metadata. Removing
// an item with a mutation in flight fails with ErrAlreadyUpdating; the
// scanner retries on the next pass. Removing an unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if !s.tracker.TryBegin(id) {
		return fmt.Errorf("%w: %s", ErrAlreadyUpdating, id)
	}
	defer s.tracker.End(id)

	if err := s.persister.Delete(ctx, id); err != nil {
		return wrapPersistence("delete", id, err)
	}
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	s.logger.Info("item removed", logging.String(logging.FieldItemID, id))
	s.publish()
	return nil
}

// UpdateMetadata commits rec as the item's metadata record. User-owned
// fields are carried over from the current record regardless of what rec
// holds; remote-sourced fields are taken from rec as given.
func (s *Store) UpdateMetadata(ctx context.Context, id string, rec *catalog.Metadata) (*catalog.Item, error) {
	if rec == nil {
		return nil, fmt.Errorf("update metadata: record required")
	}
	return s.mutate(ctx, id, func(item *catalog.Item) (*catalog.Metadata, error) {
		next := rec.Clone()
		next.CopyUserFieldsFrom(item.Merged())
		return next, nil
	})
}

// UpdateUserData applies a patch to the item's user-owned fields. Remote
// fields pass through unchanged.
func (s *Store) UpdateUserData(ctx context.Context, id string, patch UserPatch) (*catalog.Item, error) {
	return s.mutate(ctx, id, func(item *catalog.Item) (*catalog.Metadata, error) {
		next := baseRecord(item).Clone()
		patch.apply(next)
		return next, nil
	})
}

// UpdateCoverImage transfers the cover at source (HTTP URL or local path)
// into the cover store and commits the stored path as the item's thumbnail.
// Every call yields a distinct stored path, so the thumbnail value itself
// signals the change. The previous stored cover is cleaned up after commit.
func (s *Store) UpdateCoverImage(ctx context.Context, id, source string) (*catalog.Item, error) {
	if s.covers == nil {
		return nil, fmt.Errorf("update cover: no cover store configured")
	}
	var previous, installed string
	item, err := s.mutate(ctx, id, func(item *catalog.Item) (*catalog.Metadata, error) {
		stored, err := s.covers.Install(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("install cover: %w", err)
		}
		installed = stored
		next := baseRecord(item).Clone()
		previous = next.ThumbnailURL
		next.ThumbnailURL = stored
		return next, nil
	})
	if err != nil {
		if installed != "" {
			if rmErr := s.covers.Remove(installed); rmErr != nil {
				s.logger.Warn("orphaned cover cleanup failed",
					logging.String("path", installed), logging.Error(rmErr))
			}
		}
		return nil, err
	}
	if previous != "" && previous != installed {
		if rmErr := s.covers.Remove(previous); rmErr != nil {
			s.logger.Warn("previous cover cleanup failed",
				logging.String("path", previous), logging.Error(rmErr))
		}
	}
	return item, nil
}

// Reconcile runs a provider search for the item and commits the merged
// record. An empty query defaults to the item's current title and author.
// Engine failures (including reconcile.ErrNoCandidates) leave the catalog
// untouched.
func (s *Store) Reconcile(ctx context.Context, id, query string, mode reconcile.Mode, withCover bool) (*catalog.Item, error) {
	if s.reconciler == nil {
		return nil, fmt.Errorf("reconcile: no reconciler configured")
	}
	item, err := s.mutate(ctx, id, func(item *catalog.Item) (*catalog.Metadata, error) {
		return s.reconciler.Reconcile(ctx, item.Merged(), query, mode, withCover)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("item reconciled",
		logging.String(logging.FieldItemID, id),
		logging.String(logging.FieldMode, string(mode)))
	return item, nil
}

// SearchCovers returns provider-ranked cover URLs for the item without
// mutating anything.
func (s *Store) SearchCovers(ctx context.Context, id string) ([]string, error) {
	if s.reconciler == nil {
		return nil, fmt.Errorf("search covers: no reconciler configured")
	}
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.reconciler.SearchCovers(ctx, item.Merged()), nil
}

// mutate runs the commit template shared by every mutation: admit through
// the tracker, compute the next record against a frozen view, persist, then
// swap the map entry and publish. Any failure before the swap leaves the
// in-memory catalog exactly as it was.
func (s *Store) mutate(ctx context.Context, id string, compute func(item *catalog.Item) (*catalog.Metadata, error)) (*catalog.Item, error) {
	if !s.tracker.TryBegin(id) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyUpdating, id)
	}
	defer s.tracker.End(id)

	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next, err := compute(item)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.persister.Save(ctx, id, next); err != nil {
		s.logger.Error("commit aborted",
			logging.String(logging.FieldItemID, id), logging.Error(err))
		return nil, wrapPersistence("save", id, err)
	}

	// Re-read under the write lock: Add may have refreshed filesystem
	// fields while the record was being computed.
	s.mu.Lock()
	current, ok := s.items[id]
	if !ok {
		current = item
	}
	updated := current.Clone()
	updated.Metadata = next
	s.items[id] = updated
	s.mu.Unlock()

	s.publish()
	return updated, nil
}

// baseRecord picks the record a mutation starts from: the committed metadata
// when present, else the file-tag record, else an empty one.
func baseRecord(item *catalog.Item) *catalog.Metadata {
	if meta := item.Merged(); meta != nil {
		return meta
	}
	return &catalog.Metadata{}
}
