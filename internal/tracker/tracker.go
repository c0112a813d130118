package tracker

import (
	"sort"
	"sync"
)

// Tracker maintains the set of item ids with an in-flight mutation.
//
// All methods are safe for concurrent use. Publishing to subscribers never
// blocks: each subscriber holds a buffered channel and stale snapshots are
// replaced by newer ones, so a slow consumer only ever loses intermediate
// states, never ordering.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	subs     map[int]chan []string
	nextSub  int
}

// New constructs an empty tracker.
func New() *Tracker {
	return &Tracker{
		inFlight: make(map[string]struct{}),
		subs:     make(map[int]chan []string),
	}
}

// TryBegin atomically admits id into the in-flight set. It returns false,
// without blocking, when a mutation for id is already in flight.
func (t *Tracker) TryBegin(id string) bool {
	t.mu.Lock()
	if _, exists := t.inFlight[id]; exists {
		t.mu.Unlock()
		return false
	}
	t.inFlight[id] = struct{}{}
	t.publishLocked()
	t.mu.Unlock()
	return true
}

// End removes id from the in-flight set. It is idempotent and never panics
// for ids that were not admitted.
func (t *Tracker) End(id string) {
	t.mu.Lock()
	if _, exists := t.inFlight[id]; exists {
		delete(t.inFlight, id)
		t.publishLocked()
	}
	t.mu.Unlock()
}

// IsUpdating reports point-in-time membership of id in the in-flight set.
func (t *Tracker) IsUpdating(id string) bool {
	t.mu.Lock()
	_, exists := t.inFlight[id]
	t.mu.Unlock()
	return exists
}

// Updating returns a sorted snapshot copy of the in-flight set.
func (t *Tracker) Updating() []string {
	t.mu.Lock()
	snapshot := t.snapshotLocked()
	t.mu.Unlock()
	return snapshot
}

// Subscribe registers a feed of in-flight-set snapshots. The returned cancel
// function must be called to release the subscription. The channel receives
// a fresh sorted copy after every membership change; it is closed on cancel.
func (t *Tracker) Subscribe() (<-chan []string, func()) {
	ch := make(chan []string, 1)

	t.mu.Lock()
	key := t.nextSub
	t.nextSub++
	t.subs[key] = ch
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		if sub, ok := t.subs[key]; ok {
			delete(t.subs, key)
			close(sub)
		}
		t.mu.Unlock()
	}
	return ch, cancel
}

func (t *Tracker) snapshotLocked() []string {
	snapshot := make([]string, 0, len(t.inFlight))
	for id := range t.inFlight {
		snapshot = append(snapshot, id)
	}
	sort.Strings(snapshot)
	return snapshot
}

// publishLocked delivers the current snapshot to every subscriber without
// blocking: a pending stale snapshot is dropped in favor of the newer one.
func (t *Tracker) publishLocked() {
	if len(t.subs) == 0 {
		return
	}
	snapshot := t.snapshotLocked()
	for _, sub := range t.subs {
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- snapshot:
		default:
		}
	}
}
