package driven

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// ChunkFilter restricts a search or fetch to a scope. Zero fields mean
// no restriction on that axis.
type ChunkFilter struct {
	// UserID restricts to chunks of documents owned by this user.
	UserID int64

	// DocumentID restricts to chunks of a single document.
	DocumentID int64
}

// VectorPoint is a chunk plus its embedding, ready for indexing.
type VectorPoint struct {
	Chunk     domain.Chunk
	OwnerID   int64
	Embedding []float32
}

// VectorHit is a similarity search result. The chunk fields are carried
// in the index payload so hits need no store round-trip.
type VectorHit struct {
	Chunk domain.Chunk

	// Score is the similarity score returned by the index.
	Score float64
}

// VectorStore provides filtered approximate nearest-neighbour search.
// Backed by Qdrant.
type VectorStore interface {
	// Upsert inserts or replaces vectors for the given chunks.
	Upsert(ctx context.Context, points []VectorPoint) error

	// DeleteDocument removes all vectors belonging to a document.
	DeleteDocument(ctx context.Context, documentID int64) error

	// Search finds the top-k most similar chunks within the filter
	// scope, discarding hits below scoreThreshold.
	Search(ctx context.Context, query []float32, filter ChunkFilter, limit int, scoreThreshold float64) ([]VectorHit, error)

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
