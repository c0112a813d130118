package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"folio/internal/catalog"
	"folio/internal/logging"
	"folio/internal/providers"
)

// State identifies a phase of a single reconciliation call.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateMerging   State = "merging"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// ErrNoCandidates reports that the provider search produced nothing usable.
// Callers treat it as "no mutation", not as a crash.
var ErrNoCandidates = errors.New("no metadata candidates found")

// Engine orchestrates provider search and merge for the catalog store.
type Engine struct {
	provider providers.Provider
	logger   *slog.Logger
}

// NewEngine constructs a reconciliation engine backed by the given provider.
func NewEngine(provider providers.Provider, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Reconcile searches the provider for the given query and merges the best
// candidate into current under mode. The query defaults to the current
// record's title and primary author when empty.
//
// Outcomes: (record, nil) on success; (nil, ErrNoCandidates) when the search
// failed or returned nothing usable; (nil, ctx.Err()) when cancelled during
// the search phase. The returned record is always a fresh instance.
func (e *Engine) Reconcile(ctx context.Context, current *catalog.Metadata, query string, mode Mode, withCover bool) (*catalog.Metadata, error) {
	state := StateIdle
	transition := func(next State) {
		state = next
		e.logger.Debug("reconcile state", logging.String("state", string(state)), logging.String(logging.FieldMode, string(mode)))
	}

	query = strings.TrimSpace(query)
	if query == "" {
		query = defaultQuery(current)
	}
	if query == "" {
		transition(StateFailed)
		return nil, ErrNoCandidates
	}

	transition(StateSearching)
	candidates, err := e.provider.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			transition(StateCancelled)
			return nil, ctx.Err()
		}
		transition(StateFailed)
		e.logger.Warn("provider search failed",
			logging.String(logging.FieldProvider, e.provider.Name()),
			logging.String("query", query),
			logging.Error(err))
		return nil, ErrNoCandidates
	}
	if err := ctx.Err(); err != nil {
		transition(StateCancelled)
		return nil, err
	}

	candidate := bestCandidate(candidates)
	if candidate == nil {
		transition(StateFailed)
		return nil, ErrNoCandidates
	}

	// Merging is pure computation and deliberately ignores cancellation:
	// once the search completed, the result is produced atomically.
	transition(StateMerging)
	result := Merge(current, candidate, mode, withCover)

	transition(StateDone)
	return result, nil
}

// SearchCovers returns provider-ranked cover candidates for a record.
// Provider failures surface as an empty slice plus a logged warning.
func (e *Engine) SearchCovers(ctx context.Context, record *catalog.Metadata) []string {
	urls, err := e.provider.SearchCovers(ctx, record)
	if err != nil {
		e.logger.Warn("cover search failed",
			logging.String(logging.FieldProvider, e.provider.Name()),
			logging.Error(err))
		return nil
	}
	return urls
}

// bestCandidate returns the first result carrying usable remote identity,
// preserving the provider's relevance ranking.
func bestCandidate(candidates []*catalog.Metadata) *catalog.Metadata {
	for _, candidate := range candidates {
		if candidate.HasRemoteIdentity() {
			return candidate
		}
	}
	return nil
}

func defaultQuery(current *catalog.Metadata) string {
	if current == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if title := strings.TrimSpace(current.Title); title != "" {
		parts = append(parts, title)
	}
	if author := current.PrimaryAuthor(); author != "" {
		parts = append(parts, author)
	}
	return strings.Join(parts, " ")
}
