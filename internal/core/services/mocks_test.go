package services

import (
	"context"
	"sync"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	chunks        []domain.Chunk
	fetchErr      error
	titles        map[int64]domain.DocumentMeta
	titlesErr     error
	documents     map[int64]*domain.Document
	conversations map[string]*domain.Conversation
	messages      []domain.Message
	nextID        int64
	saveErr       error

	fetchedFilters []driven.ChunkFilter
	titleRequests  [][]int64
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{
		titles:        make(map[int64]domain.DocumentMeta),
		documents:     make(map[int64]*domain.Document),
		conversations: make(map[string]*domain.Conversation),
	}
}

func (m *mockChunkStore) SaveDocument(_ context.Context, doc *domain.Document) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.nextID++
	stored := *doc
	stored.ID = m.nextID
	m.documents[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockChunkStore) UpdateDocumentStatus(_ context.Context, documentID int64, status domain.DocumentStatus, chunkCount int) error {
	if doc, ok := m.documents[documentID]; ok {
		doc.Status = status
		doc.ChunkCount = chunkCount
	}
	return nil
}

func (m *mockChunkStore) SaveChunks(_ context.Context, documentID int64, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockChunkStore) FetchChunks(_ context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	m.fetchedFilters = append(m.fetchedFilters, filter)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if filter.DocumentID == 0 {
		return m.chunks, nil
	}
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == filter.DocumentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockChunkStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockChunkStore) ListDocuments(_ context.Context, _ int64) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range m.documents {
		out = append(out, *doc)
	}
	return out, nil
}

func (m *mockChunkStore) DeleteDocument(_ context.Context, id int64) error {
	delete(m.documents, id)
	return nil
}

func (m *mockChunkStore) DocumentTitles(_ context.Context, ids []int64) (map[int64]domain.DocumentMeta, error) {
	m.titleRequests = append(m.titleRequests, ids)
	if m.titlesErr != nil {
		return nil, m.titlesErr
	}
	out := make(map[int64]domain.DocumentMeta)
	for _, id := range ids {
		if meta, ok := m.titles[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}

func (m *mockChunkStore) SaveConversation(_ context.Context, conv *domain.Conversation) error {
	stored := *conv
	m.conversations[conv.ID] = &stored
	return nil
}

func (m *mockChunkStore) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return conv, nil
}

func (m *mockChunkStore) SaveMessage(_ context.Context, msg *domain.Message) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockChunkStore) ListMessages(_ context.Context, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	hits       []driven.VectorHit
	searchErr  error
	upsertErr  error
	upserted   []driven.VectorPoint
	deletedIDs []int64
}

func (m *mockVectorStore) Upsert(_ context.Context, points []driven.VectorPoint) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, points...)
	return nil
}

func (m *mockVectorStore) DeleteDocument(_ context.Context, documentID int64) error {
	m.deletedIDs = append(m.deletedIDs, documentID)
	return nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, _ driven.ChunkFilter, limit int, _ float64) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) Ping(_ context.Context) error { return nil }
func (m *mockVectorStore) Close() error                 { return nil }

// mockEmbedder implements driven.Embedder for testing. EmbedBatch is
// called from concurrent goroutines, hence the mutex.
type mockEmbedder struct {
	embedding []float32
	embedErr  error

	mu      sync.Mutex
	batches int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.mu.Lock()
	m.batches++
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 4 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockGenerator implements driven.Generator for testing.
type mockGenerator struct {
	reply       string
	generateErr error
	lastChat    []driven.ChatMessage
}

func (m *mockGenerator) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockGenerator) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.GenerateOptions) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	m.lastChat = messages
	return m.reply, nil
}

func (m *mockGenerator) ModelName() string            { return "mock-llm" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

// staticChunker implements Chunker with fixed-size word chunks.
type staticChunker struct {
	size int
}

func (c staticChunker) Split(content string) []domain.Chunk {
	size := c.size
	if size <= 0 {
		size = 50
	}
	var chunks []domain.Chunk
	for start := 0; start < len(content); start += size {
		end := start + size
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, domain.Chunk{
			Content:     content[start:end],
			ChunkType:   domain.ChunkTypeParagraph,
			TokenCount:  (end - start) / 4,
			StartOffset: start,
			EndOffset:   end,
		})
	}
	return chunks
}
