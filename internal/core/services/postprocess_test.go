package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// TestBoostResults_ExactPhrase tests the 1.3x boost for a quoted phrase
// found verbatim in content
func TestBoostResults_ExactPhrase(t *testing.T) {
	analysis := AnalyzeQuery(`"exact phrase"`)
	require.True(t, analysis.HasQuotes)

	results := []domain.SearchResult{
		{Content: "contains the exact phrase somewhere", DocumentID: 1, ChunkIndex: 0, ChunkType: domain.ChunkTypeParagraph, HybridScore: 0.5},
		{Content: "nothing relevant", DocumentID: 1, ChunkIndex: 1, ChunkType: domain.ChunkTypeParagraph, HybridScore: 0.5},
	}

	boosted := boostResults(results, analysis)

	var match, other domain.SearchResult
	for _, r := range boosted {
		if r.ChunkIndex == 0 {
			match = r
		} else {
			other = r
		}
	}
	assert.InDelta(t, 0.5*ExactPhraseBoost, match.HybridScore, 1e-9)
	assert.InDelta(t, 0.5, other.HybridScore, 1e-9)
	assert.Equal(t, 0, boosted[0].ChunkIndex, "boosted chunk must sort first")
}

// TestBoostResults_PhraseMatchIsCaseInsensitive
func TestBoostResults_PhraseMatchIsCaseInsensitive(t *testing.T) {
	analysis := AnalyzeQuery(`"Exact Phrase"`)
	results := []domain.SearchResult{
		{Content: "THE EXACT PHRASE IN CAPS", HybridScore: 1.0, ChunkType: domain.ChunkTypeParagraph},
	}

	boosted := boostResults(results, analysis)
	assert.InDelta(t, ExactPhraseBoost, boosted[0].HybridScore, 1e-9)
}

// TestBoostResults_HeaderBoost tests the header boost for questions
func TestBoostResults_HeaderBoost(t *testing.T) {
	analysis := AnalyzeQuery("what is the installation procedure")
	require.True(t, analysis.IsQuestion)

	results := []domain.SearchResult{
		{Content: "Installation", ChunkType: domain.ChunkTypeHeader, HybridScore: 0.4},
		{Content: "some body text", ChunkType: domain.ChunkTypeParagraph, HybridScore: 0.4},
	}

	boosted := boostResults(results, analysis)
	assert.Equal(t, domain.ChunkTypeHeader, boosted[0].ChunkType)
	assert.InDelta(t, 0.4*HeaderBoost, boosted[0].HybridScore, 1e-9)
}

// TestBoostResults_CodeBoost tests the code boost for technical queries
func TestBoostResults_CodeBoost(t *testing.T) {
	analysis := AnalyzeQuery("how to call the HTTP API")
	require.True(t, analysis.HasTechnicalTerms)

	results := []domain.SearchResult{
		{Content: "client.Do(req)", ChunkType: domain.ChunkTypeCode, HybridScore: 0.4},
	}

	boosted := boostResults(results, analysis)
	assert.InDelta(t, 0.4*CodeBoost, boosted[0].HybridScore, 1e-9)
}

// TestBoostResults_BoostsCombine tests multiplicative stacking
func TestBoostResults_BoostsCombine(t *testing.T) {
	// The phrase check strips quotes from the whole query, so the query
	// itself must appear in the content.
	analysis := AnalyzeQuery(`"HTTP retry"`)
	require.True(t, analysis.HasQuotes)
	require.True(t, analysis.HasTechnicalTerms)

	results := []domain.SearchResult{
		{Content: "use HTTP retry with exponential backoff", ChunkType: domain.ChunkTypeCode, HybridScore: 1.0},
	}

	boosted := boostResults(results, analysis)
	// Phrase and code boosts apply; header boost does not (not a header).
	assert.InDelta(t, ExactPhraseBoost*CodeBoost, boosted[0].HybridScore, 1e-9)
}

// TestBoostResults_ReSortsAfterBoost tests that boosts can reorder the
// fused ranking
func TestBoostResults_ReSortsAfterBoost(t *testing.T) {
	analysis := AnalyzeQuery("what are headers")

	results := []domain.SearchResult{
		{Content: "top ranked paragraph", ChunkType: domain.ChunkTypeParagraph, HybridScore: 0.50},
		{Content: "Headers", ChunkType: domain.ChunkTypeHeader, HybridScore: 0.45},
	}

	boosted := boostResults(results, analysis)
	assert.Equal(t, domain.ChunkTypeHeader, boosted[0].ChunkType)
}

// TestBoostResults_NoSignalsNoChange tests neutrality without signals
func TestBoostResults_NoSignalsNoChange(t *testing.T) {
	analysis := AnalyzeQuery("plain lowercase words")

	results := []domain.SearchResult{
		{Content: "plain lowercase words found", ChunkType: domain.ChunkTypeParagraph, HybridScore: 0.8},
	}

	boosted := boostResults(results, analysis)
	assert.InDelta(t, 0.8, boosted[0].HybridScore, 1e-9)
}
