package driving

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// DocumentService manages document ingestion and lifecycle.
type DocumentService interface {
	// Ingest chunks the given text, embeds the chunks and indexes them.
	// Returns the stored document.
	Ingest(ctx context.Context, ownerID int64, title, documentType, content string) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// List returns documents owned by a user. Zero userID lists all.
	List(ctx context.Context, userID int64) ([]domain.Document, error)

	// Delete removes a document from the metadata store and the vector
	// index.
	Delete(ctx context.Context, id int64) error
}
