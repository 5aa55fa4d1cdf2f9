package mcp

import (
	"github.com/doctalk-labs/doctalk/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid retrieval.
	Search driving.SearchService

	// Document manages ingested documents. Optional; document resources
	// are unavailable without it.
	Document driving.DocumentService

	// Dialogue answers questions with citations. Optional; the ask tool
	// is not registered without it.
	Dialogue driving.DialogueService

	// UserID scopes tool calls to one user's documents. Zero means no
	// user scoping.
	UserID int64
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
