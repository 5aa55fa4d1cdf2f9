package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query to find document fragments"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	DocumentID int64  `json:"document_id,omitempty" jsonschema:"restrict the search to one document"`
	Fusion     string `json:"fusion,omitempty" jsonschema:"fusion method: weighted, rrf or max (default weighted)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID    int64   `json:"document_id"`
	ChunkIndex    int     `json:"chunk_index"`
	Title         string  `json:"title"`
	SectionHeader string  `json:"section_header,omitempty"`
	Score         float64 `json:"score"`
	Content       string  `json:"content,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to answer from the documents"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"conversation to continue; empty starts a new one"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string           `json:"answer"`
	ConversationID string           `json:"conversation_id"`
	Citations      []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput is a source reference for an answer.
type CitationOutput struct {
	DocumentID int64  `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Title      string `json:"title,omitempty"`
	Snippet    string `json:"snippet,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all ingested documents with hybrid keyword and semantic retrieval",
	}, s.handleSearch)

	if s.ports.Dialogue != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Ask a question about the ingested documents and get a cited answer",
		}, s.handleAsk)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	opts := domain.SearchOptions{
		UserID:     s.ports.UserID,
		DocumentID: input.DocumentID,
		Limit:      limit,
		Fusion:     domain.FusionMethod(input.Fusion),
	}
	results, err := s.ports.Search.HybridSearch(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID:    results[i].DocumentID,
			ChunkIndex:    results[i].ChunkIndex,
			Title:         results[i].DocumentTitle,
			SectionHeader: results[i].SectionHeader,
			Score:         results[i].HybridScore,
			Content:       results[i].Content,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Dialogue.Ask(ctx, input.ConversationID, s.ports.UserID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:         answer.Content,
		ConversationID: answer.ConversationID,
		Citations:      make([]CitationOutput, len(answer.Citations)),
	}
	for i, c := range answer.Citations {
		output.Citations[i] = CitationOutput{
			DocumentID: c.DocumentID,
			ChunkIndex: c.ChunkIndex,
			Title:      c.DocumentTitle,
			Snippet:    c.Snippet,
		}
	}

	return nil, output, nil
}
