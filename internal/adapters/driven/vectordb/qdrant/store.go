// Package qdrant provides a vector store adapter backed by the Qdrant
// HTTP API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "doctalk_chunks"
	DefaultTimeout    = 30 * time.Second
	DefaultDistance   = "Cosine"
)

// Config holds configuration for the Qdrant vector store.
type Config struct {
	// BaseURL is the Qdrant HTTP API base URL (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests when the server requires it.
	APIKey string

	// Collection is the collection holding chunk vectors.
	Collection string

	// VectorSize is the embedding dimension; must match the embedder.
	VectorSize int

	// Distance is the similarity metric (default: Cosine).
	Distance string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store stores and searches chunk embeddings in a Qdrant collection.
// The collection is created on first use if it does not exist.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	distance   string

	ensureOnce sync.Once
	ensureErr  error
}

// NewStore creates a new Qdrant-backed vector store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Distance == "" {
		cfg.Distance = DefaultDistance
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		distance:   cfg.Distance,
	}
}

// point is the Qdrant point wire format.
type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// scoredPoint is a search hit in the Qdrant wire format.
type scoredPoint struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
}

// pointID derives a stable UUID from the chunk identity so re-ingesting
// a document overwrites its points instead of duplicating them.
func pointID(chunk domain.Chunk) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunk.ChunkID())).String()
}

// Upsert writes the points into the collection, creating it first if
// needed.
func (s *Store) Upsert(ctx context.Context, points []driven.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	wire := make([]point, len(points))
	for i, p := range points {
		wire[i] = point{
			ID:     pointID(p.Chunk),
			Vector: p.Embedding,
			Payload: map[string]any{
				"document_id":    p.Chunk.DocumentID,
				"chunk_index":    p.Chunk.ChunkIndex,
				"owner_id":       p.OwnerID,
				"content":        p.Chunk.Content,
				"chunk_type":     string(p.Chunk.ChunkType),
				"section_header": p.Chunk.SectionHeader,
				"token_count":    p.Chunk.TokenCount,
			},
		}
	}

	path := fmt.Sprintf("/collections/%s/points?wait=true", s.collection)
	if _, err := s.doRequest(ctx, http.MethodPut, path, map[string]any{"points": wire}); err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}

	logger.Debug("Upserted %d points into %s", len(wire), s.collection)
	return nil
}

// Search runs a filtered similarity search and maps hits back to
// chunks.
func (s *Store) Search(
	ctx context.Context, queryVector []float32, filter driven.ChunkFilter, limit int, scoreThreshold float64,
) ([]driven.VectorHit, error) {
	body := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if scoreThreshold > 0 {
		body["score_threshold"] = scoreThreshold
	}
	if qf := buildFilter(filter); qf != nil {
		body["filter"] = qf
	}

	path := fmt.Sprintf("/collections/%s/points/search", s.collection)
	respBody, err := s.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	var response struct {
		Result []scoredPoint `json:"result"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("qdrant search: parse response: %w", err)
	}

	hits := make([]driven.VectorHit, len(response.Result))
	for i, sp := range response.Result {
		hits[i] = driven.VectorHit{
			Chunk: chunkFromPayload(sp.Payload),
			Score: sp.Score,
		}
	}

	return hits, nil
}

// DeleteDocument removes all points of a document by payload filter.
func (s *Store) DeleteDocument(ctx context.Context, documentID int64) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}

	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", s.collection)
	if _, err := s.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("qdrant delete document %d: %w", documentID, err)
	}
	return nil
}

// Ping checks Qdrant reachability via the root endpoint, which exists
// in all server versions.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.doRequest(ctx, http.MethodGet, "/", nil); err != nil {
		return fmt.Errorf("qdrant ping: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// ensureCollection creates the collection once per process. A 409 from
// a concurrent creator counts as success.
func (s *Store) ensureCollection(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		path := fmt.Sprintf("/collections/%s/exists", s.collection)
		respBody, err := s.doRequest(ctx, http.MethodGet, path, nil)
		if err == nil {
			var response struct {
				Result struct {
					Exists bool `json:"exists"`
				} `json:"result"`
			}
			if json.Unmarshal(respBody, &response) == nil && response.Result.Exists {
				return
			}
		}

		body := map[string]any{
			"vectors": map[string]any{
				"size":     s.vectorSize,
				"distance": s.distance,
			},
		}
		if _, err := s.doRequest(ctx, http.MethodPut, "/collections/"+s.collection, body); err != nil {
			s.ensureErr = fmt.Errorf("qdrant create collection %s: %w", s.collection, err)
			return
		}
		logger.Info("Created Qdrant collection %s (dim=%d, %s)", s.collection, s.vectorSize, s.distance)
	})
	return s.ensureErr
}

func (s *Store) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("qdrant error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// buildFilter translates a chunk filter into a Qdrant must-filter.
// Zero-valued fields add no conditions.
func buildFilter(filter driven.ChunkFilter) map[string]any {
	var must []map[string]any
	if filter.UserID != 0 {
		must = append(must, map[string]any{
			"key": "owner_id", "match": map[string]any{"value": filter.UserID},
		})
	}
	if filter.DocumentID != 0 {
		must = append(must, map[string]any{
			"key": "document_id", "match": map[string]any{"value": filter.DocumentID},
		})
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

// chunkFromPayload rebuilds a chunk from the stored payload. JSON
// numbers arrive as float64.
func chunkFromPayload(payload map[string]any) domain.Chunk {
	chunk := domain.Chunk{}
	if v, ok := payload["document_id"].(float64); ok {
		chunk.DocumentID = int64(v)
	}
	if v, ok := payload["chunk_index"].(float64); ok {
		chunk.ChunkIndex = int(v)
	}
	if v, ok := payload["content"].(string); ok {
		chunk.Content = v
	}
	if v, ok := payload["chunk_type"].(string); ok {
		chunk.ChunkType = domain.ChunkType(v)
	}
	if v, ok := payload["section_header"].(string); ok {
		chunk.SectionHeader = v
	}
	if v, ok := payload["token_count"].(float64); ok {
		chunk.TokenCount = int(v)
	}
	return chunk
}
