package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// Fusion defaults. RRFK is the standard Reciprocal Rank Fusion damping
// constant; it keeps top ranks from dominating the sum.
const (
	DefaultVectorWeight  = 0.7
	DefaultKeywordWeight = 0.3
	RRFK                 = 60
)

// Weight adaptation multipliers applied when query analysis detects a
// semantic-heavy or keyword-heavy query.
const (
	semanticWeightBoost = 1.2
	semanticWeightCut   = 0.8
)

// normalizeWeights rescales the pair so it sums to 1. Only the ratio
// carries ranking information. A non-positive sum falls back to the
// defaults.
func normalizeWeights(vectorWeight, keywordWeight float64) (float64, float64) {
	total := vectorWeight + keywordWeight
	if total <= 0 {
		return DefaultVectorWeight, DefaultKeywordWeight
	}
	return vectorWeight / total, keywordWeight / total
}

// adaptWeights biases the fusion weights by query characteristics and
// re-normalises. Semantic-heavy queries lean on vector similarity;
// keyword-heavy queries lean on BM25.
func adaptWeights(vectorWeight, keywordWeight float64, analysis domain.QueryAnalysis) (float64, float64) {
	vectorWeight, keywordWeight = normalizeWeights(vectorWeight, keywordWeight)

	if analysis.IsSemanticHeavy {
		vectorWeight *= semanticWeightBoost
		keywordWeight *= semanticWeightCut
	} else if analysis.IsKeywordHeavy {
		vectorWeight *= semanticWeightCut
		keywordWeight *= semanticWeightBoost
	}

	return normalizeWeights(vectorWeight, keywordWeight)
}

// fuseResults combines the two source rankings into one deduplicated
// list ordered by hybrid score. A chunk appearing in only one source is
// kept with the other score defaulted to zero: fusion never drops
// single-source hits. Each output entry is a freshly constructed
// SearchResult, never an aliased input.
func fuseResults(
	vectorResults, keywordResults []domain.SearchResult,
	method domain.FusionMethod,
	vectorWeight, keywordWeight float64,
	limit int,
) ([]domain.SearchResult, error) {
	switch method {
	case domain.FusionWeighted:
		return weightedFusion(vectorResults, keywordResults, vectorWeight, keywordWeight, limit), nil
	case domain.FusionRRF:
		return rrfFusion(vectorResults, keywordResults, limit), nil
	case domain.FusionMax:
		return maxScoreFusion(vectorResults, keywordResults, vectorWeight, keywordWeight, limit), nil
	default:
		return nil, fmt.Errorf("fuse results: %q: %w", method, domain.ErrInvalidFusionMethod)
	}
}

// mergedEntry accumulates per-identity scores during fusion.
type mergedEntry struct {
	result domain.SearchResult
	hybrid float64
}

// mergeSources builds the per-identity union of both result lists,
// copying chunk fields and raw scores into fresh entries. Insertion
// order is recorded so iteration stays deterministic.
func mergeSources(vectorResults, keywordResults []domain.SearchResult) (map[string]*mergedEntry, []string) {
	merged := make(map[string]*mergedEntry, len(vectorResults)+len(keywordResults))
	order := make([]string, 0, len(vectorResults)+len(keywordResults))

	for _, r := range vectorResults {
		id := r.ChunkID()
		if _, ok := merged[id]; !ok {
			entry := &mergedEntry{result: r}
			entry.result.KeywordScore = 0
			merged[id] = entry
			order = append(order, id)
		}
	}

	for _, r := range keywordResults {
		id := r.ChunkID()
		if existing, ok := merged[id]; ok {
			existing.result.KeywordScore = r.KeywordScore
		} else {
			entry := &mergedEntry{result: r}
			entry.result.VectorScore = 0
			merged[id] = entry
			order = append(order, id)
		}
	}

	return merged, order
}

// weightedFusion normalises each source by its own maximum score, then
// combines with the configured weights. Per-source normalisation keeps
// a score-scale mismatch between BM25 and cosine similarity from
// swamping the weights.
func weightedFusion(vectorResults, keywordResults []domain.SearchResult, vectorWeight, keywordWeight float64, limit int) []domain.SearchResult {
	maxVector := maxScore(vectorResults, func(r domain.SearchResult) float64 { return r.VectorScore })
	maxKeyword := maxScore(keywordResults, func(r domain.SearchResult) float64 { return r.KeywordScore })

	merged, order := mergeSources(vectorResults, keywordResults)

	for _, id := range order {
		entry := merged[id]

		normVector := 0.0
		if maxVector > 0 {
			normVector = entry.result.VectorScore / maxVector
		}
		normKeyword := 0.0
		if maxKeyword > 0 {
			normKeyword = entry.result.KeywordScore / maxKeyword
		}

		entry.hybrid = vectorWeight*normVector + keywordWeight*normKeyword
	}

	return finalizeFusion(merged, order, limit)
}

// rrfFusion sums reciprocal-rank contributions 1/(k+rank+1) per source.
// Rank-based, so insensitive to the raw score scales of either source.
func rrfFusion(vectorResults, keywordResults []domain.SearchResult, limit int) []domain.SearchResult {
	merged, order := mergeSources(vectorResults, keywordResults)

	for rank, r := range vectorResults {
		merged[r.ChunkID()].hybrid += 1.0 / float64(RRFK+rank+1)
	}
	for rank, r := range keywordResults {
		merged[r.ChunkID()].hybrid += 1.0 / float64(RRFK+rank+1)
	}

	return finalizeFusion(merged, order, limit)
}

// maxScoreFusion takes the larger of the weight-scaled raw scores,
// favouring one strong signal over two mediocre ones.
func maxScoreFusion(vectorResults, keywordResults []domain.SearchResult, vectorWeight, keywordWeight float64, limit int) []domain.SearchResult {
	merged, order := mergeSources(vectorResults, keywordResults)

	for _, id := range order {
		entry := merged[id]
		vectorContribution := entry.result.VectorScore * vectorWeight
		keywordContribution := entry.result.KeywordScore * keywordWeight
		entry.hybrid = math.Max(vectorContribution, keywordContribution)
	}

	return finalizeFusion(merged, order, limit)
}

// finalizeFusion stamps hybrid scores, sorts descending with the
// deterministic identity tie-break, and truncates.
func finalizeFusion(merged map[string]*mergedEntry, order []string, limit int) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(order))
	for _, id := range order {
		entry := merged[id]
		entry.result.HybridScore = entry.hybrid
		results = append(results, entry.result)
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].HybridScore != results[b].HybridScore {
			return results[a].HybridScore > results[b].HybridScore
		}
		if results[a].DocumentID != results[b].DocumentID {
			return results[a].DocumentID < results[b].DocumentID
		}
		return results[a].ChunkIndex < results[b].ChunkIndex
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

func maxScore(results []domain.SearchResult, score func(domain.SearchResult) float64) float64 {
	max := 0.0
	for _, r := range results {
		if s := score(r); s > max {
			max = s
		}
	}
	return max
}
