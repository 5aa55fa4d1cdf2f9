package services

import (
	"regexp"
	"strings"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// Indicator sets for query classification. English-only heuristics;
// package-level so tests and tuning can inspect them.
var (
	// questionIndicators mark a query as a question when one of them
	// appears among the first few words.
	questionIndicators = map[string]bool{
		"what": true, "how": true, "why": true, "when": true,
		"where": true, "who": true, "which": true,
		"explain": true, "describe": true,
	}

	// semanticIndicators suggest the query wants conceptual answers,
	// favouring vector search.
	semanticIndicators = []string{
		"explain", "describe", "tell me about", "what is", "how does",
	}

	// keywordIndicators suggest the query wants exact lookups,
	// favouring keyword search.
	keywordIndicators = []string{
		"find", "show", "list", "search for",
	}

	// technicalTermPattern matches all-caps acronyms (2+ letters) and
	// camelCase tokens.
	technicalTermPattern = regexp.MustCompile(`[A-Z]{2,}|[a-z]+[A-Z][a-z]*`)
)

// questionPrefixWords is how many leading words are inspected for
// question indicators.
const questionPrefixWords = 3

// AnalyzeQuery classifies a raw query into the characteristics used for
// weight adaptation and post-ranking boosts. Pure function, no I/O.
// Semantic-heavy and keyword-heavy are independent signals: both, one
// or neither may hold.
func AnalyzeQuery(query string) domain.QueryAnalysis {
	queryLower := strings.ToLower(query)
	words := strings.Fields(query)

	isQuestion := false
	for i, word := range words {
		if i >= questionPrefixWords {
			break
		}
		if questionIndicators[strings.ToLower(word)] {
			isQuestion = true
			break
		}
	}

	isSemanticHeavy := containsAny(queryLower, semanticIndicators)
	isKeywordHeavy := containsAny(queryLower, keywordIndicators)

	return domain.QueryAnalysis{
		Query:             query,
		IsQuestion:        isQuestion,
		IsSemanticHeavy:   isSemanticHeavy,
		IsKeywordHeavy:    isKeywordHeavy,
		HasQuotes:         strings.Contains(query, `"`),
		HasTechnicalTerms: technicalTermPattern.MatchString(query),
		WordCount:         len(words),
		QueryLength:       len(query),
	}
}

func containsAny(s string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(s, ind) {
			return true
		}
	}
	return false
}
