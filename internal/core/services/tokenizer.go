package services

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of 2+ ASCII letters. Single letters,
// digits-only tokens and punctuation are dropped. No stemming or
// lemmatisation: a deliberate simplification.
var tokenPattern = regexp.MustCompile(`\b[a-zA-Z]{2,}\b`)

// Tokenize normalises text into lowercase alphabetic terms for keyword
// indexing and scoring. Deterministic and pure.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
