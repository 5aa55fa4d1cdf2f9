package domain

// FusionMethod selects how vector and keyword rankings are combined.
type FusionMethod string

// Supported fusion methods.
const (
	// FusionWeighted combines per-source max-normalised scores with
	// configurable weights. Sensitive to score scale within a source.
	FusionWeighted FusionMethod = "weighted"

	// FusionRRF uses Reciprocal Rank Fusion. Rank-based, so immune to
	// scale differences between vector and keyword scores.
	FusionRRF FusionMethod = "rrf"

	// FusionMax takes the larger weight-scaled contribution, favouring
	// one strong signal over two mediocre ones.
	FusionMax FusionMethod = "max"
)

// Validate returns ErrInvalidFusionMethod for unknown values.
// An unknown method is a configuration error: silently falling back to a
// default would change ranking behaviour without telling the caller.
func (m FusionMethod) Validate() error {
	switch m {
	case FusionWeighted, FusionRRF, FusionMax:
		return nil
	default:
		return ErrInvalidFusionMethod
	}
}

// SearchOptions configures a hybrid search call.
type SearchOptions struct {
	// UserID restricts the search to one user's documents. Zero means no
	// user filter.
	UserID int64

	// DocumentID restricts the search to a single document. Zero means no
	// document filter.
	DocumentID int64

	// Limit is the maximum number of results. Defaults to 10.
	Limit int

	// VectorWeight and KeywordWeight bias fusion towards one source.
	// They are normalised to sum to 1 before use; only the ratio matters.
	// Both zero means use the defaults (0.7 / 0.3).
	VectorWeight  float64
	KeywordWeight float64

	// Fusion selects the combination strategy. Empty means weighted.
	Fusion FusionMethod
}

// SearchResult is a scored view of a Chunk plus ranking signals.
// Results are constructed fresh per query and never persisted.
type SearchResult struct {
	// Chunk fields copied at construction.
	Content       string
	DocumentID    int64
	ChunkIndex    int
	ChunkType     ChunkType
	SectionHeader string
	TokenCount    int

	// VectorScore is the raw similarity from the vector index, 0 if the
	// chunk was not found by vector search.
	VectorScore float64

	// KeywordScore is the raw BM25 score, 0 if the chunk was not found by
	// keyword search.
	KeywordScore float64

	// HybridScore is the fused score and the sole sort key.
	HybridScore float64

	// DocumentTitle and DocumentType are filled in by metadata
	// enrichment. Empty until enriched.
	DocumentTitle string
	DocumentType  string
}

// ChunkID returns the composite identity of the underlying chunk.
func (r SearchResult) ChunkID() string {
	return Chunk{DocumentID: r.DocumentID, ChunkIndex: r.ChunkIndex}.ChunkID()
}

// QueryAnalysis records heuristic characteristics of a query. It is
// computed once per search and consumed by weight adaptation and
// post-ranking boosts.
type QueryAnalysis struct {
	Query             string
	IsQuestion        bool
	IsSemanticHeavy   bool
	IsKeywordHeavy    bool
	HasQuotes         bool
	HasTechnicalTerms bool
	WordCount         int
	QueryLength       int
}
