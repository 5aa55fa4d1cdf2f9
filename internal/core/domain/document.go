package domain

import (
	"fmt"
	"time"
)

// ChunkType classifies the structural role of a chunk within its document.
// The classification is advisory: it feeds ranking boosts, never filtering.
type ChunkType string

// Chunk type values produced by the chunker.
const (
	ChunkTypeParagraph ChunkType = "paragraph"
	ChunkTypeHeader    ChunkType = "header"
	ChunkTypeList      ChunkType = "list"
	ChunkTypeCode      ChunkType = "code"
	ChunkTypeTable     ChunkType = "table"
)

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

// Document status values.
const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents an uploaded document with metadata.
type Document struct {
	// ID is the unique identifier assigned by the metadata store.
	ID int64

	// OwnerID identifies the user who uploaded the document.
	OwnerID int64

	// Title is the human-readable title.
	Title string

	// DocumentType describes the original format ("markdown", "text", ...).
	DocumentType string

	// Content is the full extracted text before chunking.
	Content string

	// Status tracks ingestion progress.
	Status DocumentStatus

	// ChunkCount is the number of chunks produced at ingestion.
	ChunkCount int

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is the atomic unit of retrieval: an immutable snapshot of a
// contiguous slice of document text.
type Chunk struct {
	// DocumentID links to the owning Document.
	DocumentID int64

	// ChunkIndex is the ordinal position within the document.
	// (DocumentID, ChunkIndex) is the chunk's identity.
	ChunkIndex int

	// Content is the text body of the chunk.
	Content string

	// ChunkType is the structural classification.
	ChunkType ChunkType

	// SectionHeader is the nearest preceding heading, if any.
	SectionHeader string

	// TokenCount is the approximate token size of the content.
	TokenCount int

	// StartOffset and EndOffset are character offsets into the source
	// document. Informational only.
	StartOffset int
	EndOffset   int
}

// ChunkID returns the composite identity used by the vector index and
// fusion bookkeeping.
func (c Chunk) ChunkID() string {
	return fmt.Sprintf("%d_%d", c.DocumentID, c.ChunkIndex)
}

// DocumentMeta is the subset of document metadata attached to search
// results during enrichment.
type DocumentMeta struct {
	Title        string
	DocumentType string
}
