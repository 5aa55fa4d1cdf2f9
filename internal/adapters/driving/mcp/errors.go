// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search the document corpus and ask questions
// about it over stdio or HTTP.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
