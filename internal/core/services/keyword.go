package services

import (
	"math"
	"sort"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// Okapi BM25 parameters. Exposed as named defaults so tuning and tests
// can override them via BM25Params.
const (
	// DefaultBM25K1 controls term-frequency saturation.
	DefaultBM25K1 = 1.5

	// DefaultBM25B controls document-length normalisation.
	DefaultBM25B = 0.75

	// DefaultBM25Epsilon is the IDF smoothing floor that keeps very
	// common terms from producing negative or zero IDF.
	DefaultBM25Epsilon = 0.25
)

// BM25Params holds the tunable constants of the BM25 scoring function.
type BM25Params struct {
	K1      float64
	B       float64
	Epsilon float64
}

// DefaultBM25Params returns the standard parameter set.
func DefaultBM25Params() BM25Params {
	return BM25Params{K1: DefaultBM25K1, B: DefaultBM25B, Epsilon: DefaultBM25Epsilon}
}

// KeywordHit is a scored candidate from BM25 search.
type KeywordHit struct {
	Chunk domain.Chunk
	Score float64
}

// KeywordEngine scores chunks against a query using Okapi BM25 over an
// index built fresh from the candidate set on every call. The caller is
// responsible for scope filtering; nothing is cached across calls, so
// the statistics always reflect exactly the current candidate
// population.
type KeywordEngine struct {
	params BM25Params
}

// NewKeywordEngine creates a keyword engine with default parameters.
func NewKeywordEngine() *KeywordEngine {
	return &KeywordEngine{params: DefaultBM25Params()}
}

// NewKeywordEngineWithParams creates a keyword engine with custom
// BM25 parameters.
func NewKeywordEngineWithParams(params BM25Params) *KeywordEngine {
	return &KeywordEngine{params: params}
}

// bm25Index holds the per-call corpus statistics.
type bm25Index struct {
	// termDocFreq maps term -> number of candidates containing it.
	termDocFreq map[string]int

	// termFreqs[i] maps term -> occurrences in candidate i.
	termFreqs []map[string]int

	// docLengths[i] is the token length of candidate i.
	docLengths []int

	avgDocLength float64
	totalDocs    int
}

// buildIndex computes the inverted-index statistics over the candidates.
func buildIndex(candidates []domain.Chunk) *bm25Index {
	idx := &bm25Index{
		termDocFreq: make(map[string]int),
		termFreqs:   make([]map[string]int, len(candidates)),
		docLengths:  make([]int, len(candidates)),
		totalDocs:   len(candidates),
	}

	totalLength := 0
	for i, chunk := range candidates {
		tokens := Tokenize(chunk.Content)

		freq := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freq[tok]++
		}
		idx.termFreqs[i] = freq
		idx.docLengths[i] = len(tokens)
		totalLength += len(tokens)

		for term := range freq {
			idx.termDocFreq[term]++
		}
	}

	if idx.totalDocs > 0 {
		idx.avgDocLength = float64(totalLength) / float64(idx.totalDocs)
	}

	return idx
}

// score computes the BM25 score of candidate i for the query terms.
// Terms absent from the candidate or the corpus contribute nothing.
func (e *KeywordEngine) score(queryTerms []string, i int, idx *bm25Index) float64 {
	score := 0.0
	docLength := float64(idx.docLengths[i])

	for _, term := range queryTerms {
		tf := float64(idx.termFreqs[i][term])
		if tf == 0 {
			continue
		}

		df := float64(idx.termDocFreq[term])
		if df == 0 {
			continue
		}

		idf := math.Log((float64(idx.totalDocs)-df+0.5)/(df+0.5) + e.params.Epsilon)

		tfComponent := (tf * (e.params.K1 + 1)) /
			(tf + e.params.K1*(1-e.params.B+e.params.B*(docLength/idx.avgDocLength)))

		score += idf * tfComponent
	}

	return score
}

// Search performs BM25 keyword search over the supplied candidates.
// Candidates with no matching terms are dropped. Results are ordered by
// descending score; exact ties are broken by ascending
// (document_id, chunk_index) so the ordering is deterministic.
func (e *KeywordEngine) Search(query string, candidates []domain.Chunk, limit int) []KeywordHit {
	if len(candidates) == 0 {
		return nil
	}

	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 {
		return nil
	}

	idx := buildIndex(candidates)

	hits := make([]KeywordHit, 0, len(candidates))
	for i, chunk := range candidates {
		s := e.score(queryTerms, i, idx)
		if s > 0 {
			hits = append(hits, KeywordHit{Chunk: chunk, Score: s})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		if hits[a].Chunk.DocumentID != hits[b].Chunk.DocumentID {
			return hits[a].Chunk.DocumentID < hits[b].Chunk.DocumentID
		}
		return hits[a].Chunk.ChunkIndex < hits[b].Chunk.ChunkIndex
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits
}
