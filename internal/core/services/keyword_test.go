package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// testChunks includes enough non-matching chunks that query terms keep
// a positive IDF under the smoothed formula.
func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{DocumentID: 1, ChunkIndex: 0, Content: "machine learning uses neural networks"},
		{DocumentID: 1, ChunkIndex: 1, Content: "the cat sat on the mat"},
		{DocumentID: 2, ChunkIndex: 0, Content: "neural networks power deep learning models"},
		{DocumentID: 2, ChunkIndex: 1, Content: "bread recipes require flour water and salt"},
		{DocumentID: 3, ChunkIndex: 0, Content: "the weather today is sunny with light wind"},
	}
}

// TestKeywordEngine_PureKeywordDominance tests that the matching chunk
// ranks first and non-matching chunks are excluded
func TestKeywordEngine_PureKeywordDominance(t *testing.T) {
	engine := NewKeywordEngine()
	chunks := []domain.Chunk{
		{DocumentID: 1, ChunkIndex: 0, Content: "machine learning uses neural networks"},
		{DocumentID: 1, ChunkIndex: 1, Content: "the cat sat on the mat"},
	}

	hits := engine.Search("neural networks", chunks, 5)

	require.Len(t, hits, 1)
	assert.Equal(t, int64(1), hits[0].Chunk.DocumentID)
	assert.Equal(t, 0, hits[0].Chunk.ChunkIndex)
	assert.Greater(t, hits[0].Score, 0.0)
}

// TestKeywordEngine_Determinism tests identical ordered scores on
// repeated calls
func TestKeywordEngine_Determinism(t *testing.T) {
	engine := NewKeywordEngine()
	chunks := testChunks()

	first := engine.Search("neural networks learning", chunks, 10)
	second := engine.Search("neural networks learning", chunks, 10)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Chunk.ChunkID(), second[i].Chunk.ChunkID())
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

// TestKeywordEngine_TermAbsenceZeroScore tests that a chunk with none
// of the query terms never appears
func TestKeywordEngine_TermAbsenceZeroScore(t *testing.T) {
	engine := NewKeywordEngine()
	hits := engine.Search("neural networks", testChunks(), 10)

	for _, hit := range hits {
		assert.NotEqual(t, "1_1", hit.Chunk.ChunkID(), "chunk without query terms must be excluded")
	}
}

// TestKeywordEngine_EmptyCandidates tests empty input yields empty output
func TestKeywordEngine_EmptyCandidates(t *testing.T) {
	engine := NewKeywordEngine()
	assert.Empty(t, engine.Search("anything", nil, 10))
	assert.Empty(t, engine.Search("anything", []domain.Chunk{}, 10))
}

// TestKeywordEngine_NoValidTokens tests a query with no indexable
// tokens yields empty output, not an error
func TestKeywordEngine_NoValidTokens(t *testing.T) {
	engine := NewKeywordEngine()
	assert.Empty(t, engine.Search("? ! 1 2 3", testChunks(), 10))
}

// TestKeywordEngine_LimitTruncation tests result truncation
func TestKeywordEngine_LimitTruncation(t *testing.T) {
	engine := NewKeywordEngine()
	hits := engine.Search("neural networks learning", testChunks(), 1)
	assert.Len(t, hits, 1)
}

// TestKeywordEngine_TieBreakByIdentity tests that exact score ties are
// ordered by ascending (document_id, chunk_index)
func TestKeywordEngine_TieBreakByIdentity(t *testing.T) {
	engine := NewKeywordEngine()
	// Identical contents score identically; fillers keep IDF positive.
	chunks := []domain.Chunk{
		{DocumentID: 3, ChunkIndex: 1, Content: "alpha beta gamma"},
		{DocumentID: 1, ChunkIndex: 2, Content: "alpha beta gamma"},
		{DocumentID: 1, ChunkIndex: 0, Content: "alpha beta gamma"},
		{DocumentID: 4, ChunkIndex: 0, Content: "delta epsilon zeta"},
		{DocumentID: 4, ChunkIndex: 1, Content: "eta theta iota"},
		{DocumentID: 4, ChunkIndex: 2, Content: "kappa lambda mu"},
		{DocumentID: 4, ChunkIndex: 3, Content: "nu xi omicron"},
		{DocumentID: 4, ChunkIndex: 4, Content: "pi rho sigma"},
	}

	hits := engine.Search("alpha", chunks, 10)

	require.Len(t, hits, 3)
	assert.Equal(t, "1_0", hits[0].Chunk.ChunkID())
	assert.Equal(t, "1_2", hits[1].Chunk.ChunkID())
	assert.Equal(t, "3_1", hits[2].Chunk.ChunkID())
}

// TestKeywordEngine_LengthNormalisation tests that a term match in a
// shorter chunk outscores the same match diluted in a longer chunk
func TestKeywordEngine_LengthNormalisation(t *testing.T) {
	engine := NewKeywordEngine()
	chunks := []domain.Chunk{
		{DocumentID: 1, ChunkIndex: 0, Content: "quantum computing"},
		{DocumentID: 1, ChunkIndex: 1, Content: "quantum computing is one topic among many other topics covered in this very long introductory chapter about computing history"},
		{DocumentID: 2, ChunkIndex: 0, Content: "gardening tips for spring vegetables"},
		{DocumentID: 2, ChunkIndex: 1, Content: "classical music of the romantic era"},
	}

	hits := engine.Search("quantum", chunks, 10)

	require.Len(t, hits, 2)
	assert.Equal(t, "1_0", hits[0].Chunk.ChunkID())
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

// TestKeywordEngine_CustomParams tests parameter overrides take effect
func TestKeywordEngine_CustomParams(t *testing.T) {
	defaultEngine := NewKeywordEngine()
	flatEngine := NewKeywordEngineWithParams(BM25Params{K1: 0.0, B: 0.0, Epsilon: DefaultBM25Epsilon})

	chunks := testChunks()
	defaultHits := defaultEngine.Search("neural networks", chunks, 10)
	flatHits := flatEngine.Search("neural networks", chunks, 10)

	require.NotEmpty(t, defaultHits)
	require.NotEmpty(t, flatHits)
	assert.NotEqual(t, defaultHits[0].Score, flatHits[0].Score)
}
