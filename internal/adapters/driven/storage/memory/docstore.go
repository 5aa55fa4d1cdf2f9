// Package memory provides an in-memory metadata store, useful for
// tests and throwaway sessions that need no persistence.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
)

// Ensure DocStore implements the interface.
var _ driven.ChunkStore = (*DocStore)(nil)

// DocStore is an in-memory implementation of driven.ChunkStore.
type DocStore struct {
	mu            sync.RWMutex
	nextID        int64
	documents     map[int64]domain.Document
	chunks        map[int64][]domain.Chunk
	conversations map[string]domain.Conversation
	messages      map[string][]domain.Message
}

// NewDocStore creates a new in-memory store.
func NewDocStore() *DocStore {
	return &DocStore{
		documents:     make(map[int64]domain.Document),
		chunks:        make(map[int64][]domain.Chunk),
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

// SaveDocument stores a document and returns its assigned ID.
func (s *DocStore) SaveDocument(_ context.Context, doc *domain.Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *doc
	stored.ID = s.nextID
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.documents[stored.ID] = stored
	return stored.ID, nil
}

// UpdateDocumentStatus transitions a document's ingestion status.
func (s *DocStore) UpdateDocumentStatus(_ context.Context, documentID int64, status domain.DocumentStatus, chunkCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.ChunkCount = chunkCount
	doc.UpdatedAt = time.Now().UTC()
	s.documents[documentID] = doc
	return nil
}

// SaveChunks stores the chunks of a document, replacing any previous
// chunk set.
func (s *DocStore) SaveChunks(_ context.Context, documentID int64, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)
	s.chunks[documentID] = copied
	return nil
}

// FetchChunks returns all chunks within the filter scope, ordered by
// (document_id, chunk_index).
func (s *DocStore) FetchChunks(_ context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Chunk
	for docID, chunks := range s.chunks {
		if filter.DocumentID != 0 && docID != filter.DocumentID {
			continue
		}
		if filter.UserID != 0 {
			doc, ok := s.documents[docID]
			if !ok || doc.OwnerID != filter.UserID {
				continue
			}
		}
		out = append(out, chunks...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out, nil
}

// GetDocument retrieves a document by ID.
func (s *DocStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns documents owned by a user, newest first. Zero
// userID lists all.
func (s *DocStore) ListDocuments(_ context.Context, userID int64) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.documents {
		if userID != 0 && doc.OwnerID != userID {
			continue
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocStore) DeleteDocument(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

// DocumentTitles batch-fetches title and type for the given document
// IDs.
func (s *DocStore) DocumentTitles(_ context.Context, ids []int64) (map[int64]domain.DocumentMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make(map[int64]domain.DocumentMeta, len(ids))
	for _, id := range ids {
		if doc, ok := s.documents[id]; ok {
			metas[id] = domain.DocumentMeta{Title: doc.Title, DocumentType: doc.DocumentType}
		}
	}
	return metas, nil
}

// SaveConversation stores or updates a conversation.
func (s *DocStore) SaveConversation(_ context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = *conv
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *DocStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &conv, nil
}

// SaveMessage appends a message to a conversation.
func (s *DocStore) SaveMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], *msg)
	return nil
}

// ListMessages returns a conversation's messages in insertion order.
func (s *DocStore) ListMessages(_ context.Context, conversationID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
