package providers

import (
	"context"

	"folio/internal/catalog"
)

// Provider defines the metadata search operations used by reconciliation.
type Provider interface {
	// Name identifies the provider in record provenance and logs.
	Name() string

	// Search returns candidate metadata records for a free-text query,
	// ordered by provider-ranked relevance. An empty slice is a valid
	// result meaning no candidates were found.
	Search(ctx context.Context, query string) ([]*catalog.Metadata, error)

	// SearchCovers returns candidate cover-art URLs for the given record,
	// ordered by provider-ranked relevance.
	SearchCovers(ctx context.Context, record *catalog.Metadata) ([]string, error)
}
