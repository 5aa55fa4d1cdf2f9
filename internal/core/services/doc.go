// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The hybrid retrieval engine lives here: BM25 keyword scoring, query
// analysis, the three fusion strategies and post-ranking boosts are all
// pure Go with no external service calls.
package services
