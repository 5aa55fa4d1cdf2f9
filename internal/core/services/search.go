package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driving"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is the result count when the caller does not set one.
const DefaultSearchLimit = 10

// DefaultScoreThreshold is the vector similarity cutoff used during
// retrieval. Intentionally lower than a user-facing relevance cutoff:
// fusion needs more raw candidates than the final result size.
const DefaultScoreThreshold = 0.1

// overFetchFactor is how much each source over-fetches relative to the
// requested limit, giving fusion enough material to reorder.
const overFetchFactor = 2

// SearchService orchestrates hybrid retrieval: query analysis, parallel
// vector and keyword search, fusion, metadata enrichment and
// post-ranking boosts.
//
// The embedder and vectorStore are optional (can be nil); without them
// search degrades to keyword-only.
type SearchService struct {
	store          driven.ChunkStore
	vectorStore    driven.VectorStore
	embedder       driven.Embedder
	keywordEngine  *KeywordEngine
	scoreThreshold float64
}

// NewSearchService creates a new hybrid search service.
func NewSearchService(
	store driven.ChunkStore,
	vectorStore driven.VectorStore,
	embedder driven.Embedder,
) *SearchService {
	return &SearchService{
		store:          store,
		vectorStore:    vectorStore,
		embedder:       embedder,
		keywordEngine:  NewKeywordEngine(),
		scoreThreshold: DefaultScoreThreshold,
	}
}

// SetScoreThreshold overrides the vector similarity cutoff.
func (s *SearchService) SetScoreThreshold(threshold float64) {
	s.scoreThreshold = threshold
}

// HybridSearch performs hybrid retrieval for a query.
//
// Failure semantics: a vector-path failure degrades to keyword-only, a
// candidate-fetch failure degrades to vector-only, and both failing
// yields an empty result rather than an error. Only configuration
// errors (an unknown fusion method) propagate.
func (s *SearchService) HybridSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Hybrid Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	method := opts.Fusion
	if method == "" {
		method = domain.FusionWeighted
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	internalLimit := limit * overFetchFactor
	logger.Debug("Limit: %d, internal limit: %d, fusion: %s", limit, internalLimit, method)

	vectorWeight := opts.VectorWeight
	keywordWeight := opts.KeywordWeight
	if vectorWeight == 0 && keywordWeight == 0 {
		vectorWeight = DefaultVectorWeight
		keywordWeight = DefaultKeywordWeight
	}

	analysis := AnalyzeQuery(query)
	vectorWeight, keywordWeight = adaptWeights(vectorWeight, keywordWeight, analysis)
	logger.Debug("Analysis: question=%t semantic=%t keyword=%t quotes=%t technical=%t",
		analysis.IsQuestion, analysis.IsSemanticHeavy, analysis.IsKeywordHeavy,
		analysis.HasQuotes, analysis.HasTechnicalTerms)
	logger.Debug("Weights: vector=%.3f keyword=%.3f", vectorWeight, keywordWeight)

	filter := driven.ChunkFilter{UserID: opts.UserID, DocumentID: opts.DocumentID}

	// Vector search and the candidate fetch are independent I/O; run
	// them in parallel. Each side degrades on its own failure.
	var (
		vectorResults []domain.SearchResult
		candidates    []domain.Chunk
		vectorErr     error
		fetchErr      error
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		vectorResults, vectorErr = s.vectorSearch(ctx, query, filter, internalLimit)
	}()

	go func() {
		defer wg.Done()
		candidates, fetchErr = s.fetchCandidates(ctx, filter)
	}()

	wg.Wait()

	if vectorErr != nil {
		logger.Warn("Vector search failed, proceeding keyword-only: %v (user=%d doc=%d)",
			vectorErr, opts.UserID, opts.DocumentID)
		vectorResults = nil
	}
	if fetchErr != nil {
		logger.Warn("Candidate fetch failed, proceeding vector-only: %v (user=%d doc=%d)",
			fetchErr, opts.UserID, opts.DocumentID)
		candidates = nil
	}

	keywordResults := s.keywordSearch(query, candidates, internalLimit)
	logger.Debug("Sources: %d vector, %d keyword", len(vectorResults), len(keywordResults))

	fused, err := fuseResults(vectorResults, keywordResults, method, vectorWeight, keywordWeight, 0)
	if err != nil {
		return nil, err
	}

	s.enrichMetadata(ctx, fused)

	fused = boostResults(fused, analysis)

	if len(fused) > limit {
		fused = fused[:limit]
	}
	logger.Info("Final results: %d", len(fused))

	return fused, nil
}

// vectorSearch embeds the query and runs a filtered similarity search.
func (s *SearchService) vectorSearch(
	ctx context.Context, query string, filter driven.ChunkFilter, limit int,
) ([]domain.SearchResult, error) {
	if s.vectorStore == nil || s.embedder == nil {
		logger.Debug("Vector search unavailable, skipping")
		return nil, nil
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.vectorStore.Search(ctx, embedding, filter, limit, s.scoreThreshold)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			Content:       hit.Chunk.Content,
			DocumentID:    hit.Chunk.DocumentID,
			ChunkIndex:    hit.Chunk.ChunkIndex,
			ChunkType:     hit.Chunk.ChunkType,
			SectionHeader: hit.Chunk.SectionHeader,
			TokenCount:    hit.Chunk.TokenCount,
			VectorScore:   hit.Score,
		}
	}

	return results, nil
}

// fetchCandidates loads the scope-filtered candidate population for
// keyword search.
func (s *SearchService) fetchCandidates(ctx context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	if s.store == nil {
		return nil, errors.New("metadata store unavailable")
	}
	return s.store.FetchChunks(ctx, filter)
}

// keywordSearch scores the candidates with BM25 and converts hits to
// search results.
func (s *SearchService) keywordSearch(query string, candidates []domain.Chunk, limit int) []domain.SearchResult {
	hits := s.keywordEngine.Search(query, candidates, limit)

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			Content:       hit.Chunk.Content,
			DocumentID:    hit.Chunk.DocumentID,
			ChunkIndex:    hit.Chunk.ChunkIndex,
			ChunkType:     hit.Chunk.ChunkType,
			SectionHeader: hit.Chunk.SectionHeader,
			TokenCount:    hit.Chunk.TokenCount,
			KeywordScore:  hit.Score,
		}
	}

	return results
}

// enrichMetadata attaches document titles and types via one batch
// lookup of the distinct document IDs. Enrichment failures leave the
// fields blank rather than failing the search.
func (s *SearchService) enrichMetadata(ctx context.Context, results []domain.SearchResult) {
	if s.store == nil || len(results) == 0 {
		return
	}

	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(results))
	for i := range results {
		if !seen[results[i].DocumentID] {
			seen[results[i].DocumentID] = true
			ids = append(ids, results[i].DocumentID)
		}
	}

	metas, err := s.store.DocumentTitles(ctx, ids)
	if err != nil {
		logger.Warn("Metadata enrichment failed: %v", err)
		return
	}

	for i := range results {
		if meta, ok := metas[results[i].DocumentID]; ok {
			results[i].DocumentTitle = meta.Title
			results[i].DocumentType = meta.DocumentType
		}
	}
}
