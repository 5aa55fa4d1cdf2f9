package services

import (
	"sort"
	"strings"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// Post-ranking boost multipliers. Boosts are independent and combine
// multiplicatively.
const (
	// ExactPhraseBoost applies when a quoted query phrase appears
	// verbatim in the chunk content.
	ExactPhraseBoost = 1.3

	// HeaderBoost applies to header chunks for question queries.
	HeaderBoost = 1.2

	// CodeBoost applies to code chunks for technical-term queries.
	CodeBoost = 1.1
)

// boostResults applies query-adaptive boosts to the hybrid scores and
// re-sorts. This is a second sort pass after fusion: boosts can change
// relative order.
func boostResults(results []domain.SearchResult, analysis domain.QueryAnalysis) []domain.SearchResult {
	phrase := ""
	if analysis.HasQuotes {
		phrase = strings.ToLower(strings.ReplaceAll(analysis.Query, `"`, ""))
	}

	for i := range results {
		boost := 1.0

		if phrase != "" && strings.Contains(strings.ToLower(results[i].Content), phrase) {
			boost *= ExactPhraseBoost
		}

		if analysis.IsQuestion && results[i].ChunkType == domain.ChunkTypeHeader {
			boost *= HeaderBoost
		}

		if analysis.HasTechnicalTerms && results[i].ChunkType == domain.ChunkTypeCode {
			boost *= CodeBoost
		}

		results[i].HybridScore *= boost
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].HybridScore > results[b].HybridScore
	})

	return results
}
