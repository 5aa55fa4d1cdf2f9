package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFusionMethod indicates an unknown fusion method name.
	// This is a configuration error and propagates to the caller rather
	// than silently changing ranking behaviour.
	ErrInvalidFusionMethod = errors.New("invalid fusion method")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured. Vector search is disabled.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrGeneratorUnavailable indicates no LLM is configured.
	// Dialogue features are disabled; search still works.
	ErrGeneratorUnavailable = errors.New("generator unavailable")

	// ErrStoreUnavailable indicates the metadata store is not configured.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
)
