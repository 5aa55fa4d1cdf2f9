// Package domain defines the core business entities for Doctalk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document with metadata
//   - Chunk: A retrievable unit of document text
//   - SearchResult: A scored view of a chunk produced by hybrid retrieval
//   - Conversation/Message: A dialogue over the document corpus
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
