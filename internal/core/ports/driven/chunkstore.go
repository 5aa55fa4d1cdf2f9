package driven

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// ChunkStore persists documents, chunks and conversations.
// Backed by SQLite for metadata storage.
type ChunkStore interface {
	// SaveDocument stores a document and returns its assigned ID.
	SaveDocument(ctx context.Context, doc *domain.Document) (int64, error)

	// UpdateDocumentStatus transitions a document's ingestion status.
	UpdateDocumentStatus(ctx context.Context, documentID int64, status domain.DocumentStatus, chunkCount int) error

	// SaveChunks stores the chunks of a document, replacing any previous
	// chunk set for that document.
	SaveChunks(ctx context.Context, documentID int64, chunks []domain.Chunk) error

	// FetchChunks returns the candidate population for a keyword search:
	// all chunks within the filter scope.
	FetchChunks(ctx context.Context, filter ChunkFilter) ([]domain.Chunk, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// ListDocuments returns documents owned by a user. Zero userID lists all.
	ListDocuments(ctx context.Context, userID int64) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id int64) error

	// DocumentTitles batch-fetches title and type for the given document
	// IDs, keyed by ID. Missing IDs are simply absent from the map.
	DocumentTitles(ctx context.Context, ids []int64) (map[int64]domain.DocumentMeta, error)

	// SaveConversation stores or updates a conversation.
	SaveConversation(ctx context.Context, conv *domain.Conversation) error

	// GetConversation retrieves a conversation by ID.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// SaveMessage appends a message to a conversation.
	SaveMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns a conversation's messages in creation order.
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}
