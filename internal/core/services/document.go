package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driving"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// embedBatchSize is how many chunk texts are embedded per API call.
const embedBatchSize = 32

// maxConcurrentBatches bounds the embedding calls in flight.
const maxConcurrentBatches = 4

// Chunker splits extracted document text into ordered chunks with
// offsets, section headers and type labels.
type Chunker interface {
	Split(content string) []domain.Chunk
}

// DocumentService handles ingestion: chunking, embedding and indexing.
// The vectorStore and embedder are optional; without them documents are
// still stored and keyword-searchable.
type DocumentService struct {
	store       driven.ChunkStore
	vectorStore driven.VectorStore
	embedder    driven.Embedder
	chunker     Chunker
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	store driven.ChunkStore,
	vectorStore driven.VectorStore,
	embedder driven.Embedder,
	chunker Chunker,
) *DocumentService {
	return &DocumentService{
		store:       store,
		vectorStore: vectorStore,
		embedder:    embedder,
		chunker:     chunker,
	}
}

// Ingest chunks the content, stores document and chunks, embeds the
// chunks in batches and upserts them into the vector index.
//
// A vector-path failure does not fail ingestion: the document stays
// keyword-searchable and its status records the degradation.
func (s *DocumentService) Ingest(
	ctx context.Context, ownerID int64, title, documentType, content string,
) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("ingest %q: empty content: %w", title, domain.ErrInvalidInput)
	}

	logger.Section("Ingest")
	logger.Debug("Title: %q, type: %s, %d bytes", title, documentType, len(content))

	doc := &domain.Document{
		OwnerID:      ownerID,
		Title:        title,
		DocumentType: documentType,
		Content:      content,
		Status:       domain.DocumentStatusProcessing,
	}

	id, err := s.store.SaveDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	doc.ID = id

	chunks := s.chunker.Split(content)
	for i := range chunks {
		chunks[i].DocumentID = id
		chunks[i].ChunkIndex = i
	}
	logger.Debug("Chunked into %d chunks", len(chunks))

	if err := s.store.SaveChunks(ctx, id, chunks); err != nil {
		_ = s.store.UpdateDocumentStatus(ctx, id, domain.DocumentStatusFailed, 0)
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	if err := s.vectorize(ctx, ownerID, chunks); err != nil {
		logger.Warn("Vectorization failed for document %d, keyword-only: %v", id, err)
	}

	if err := s.store.UpdateDocumentStatus(ctx, id, domain.DocumentStatusReady, len(chunks)); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	doc.Status = domain.DocumentStatusReady
	doc.ChunkCount = len(chunks)

	logger.Info("Ingested document %d with %d chunks", id, len(chunks))
	return doc, nil
}

// vectorize embeds the chunks in bounded-concurrency batches and
// upserts them. Any batch failing aborts the whole pass.
func (s *DocumentService) vectorize(ctx context.Context, ownerID int64, chunks []domain.Chunk) error {
	if s.vectorStore == nil || s.embedder == nil {
		logger.Debug("Vector path unavailable, skipping vectorization")
		return nil
	}
	if len(chunks) == 0 {
		return nil
	}

	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Content
			}

			vectors, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embed batch [%d:%d]: got %d vectors", start, end, len(vectors))
			}

			copy(embeddings[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	points := make([]driven.VectorPoint, len(chunks))
	for i, chunk := range chunks {
		points[i] = driven.VectorPoint{
			Chunk:     chunk,
			OwnerID:   ownerID,
			Embedding: embeddings[i],
		}
	}

	return s.vectorStore.Upsert(ctx, points)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.GetDocument(ctx, id)
}

// List returns documents owned by a user.
func (s *DocumentService) List(ctx context.Context, userID int64) ([]domain.Document, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.ListDocuments(ctx, userID)
}

// Delete removes a document from the metadata store and the vector
// index. A missing vector entry is not an error.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	if s.store == nil {
		return domain.ErrStoreUnavailable
	}

	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}

	if s.vectorStore != nil {
		if err := s.vectorStore.DeleteDocument(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Vector delete failed for document %d: %v", id, err)
		}
	}

	return nil
}
