package driving

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// SearchService provides hybrid retrieval to external actors.
type SearchService interface {
	// HybridSearch runs the full retrieval pipeline for a query: query
	// analysis, concurrent vector and keyword retrieval, fusion,
	// metadata enrichment and post-ranking. An empty result is a normal
	// outcome, not an error.
	HybridSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
