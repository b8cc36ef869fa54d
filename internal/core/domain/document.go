package domain

import (
	"fmt"
	"strings"
)

// Chunk is the atomic unit of indexing and retrieval: a contiguous span
// of a source document's extracted text.
//
// Chunks are created by the chunker, receive an embedding from the
// embedding service, are persisted by the vector index, and are never
// mutated after persistence. They are destroyed only by full-collection
// deletion; there is no per-chunk delete.
type Chunk struct {
	// ID is unique within the collection, deterministically derived
	// from (source, chunk index). See ChunkID.
	ID string

	// Text is the chunk's literal content. Never empty.
	Text string

	// Metadata carries the chunk's position within its document.
	Metadata ChunkMetadata

	// Embedding is the vector representation, attached after embedding
	// generation. Nil before that.
	Embedding []float32
}

// ChunkMetadata positions a chunk within its source document.
type ChunkMetadata struct {
	// Source is the originating file name. It doubles as the document
	// key: the vector index is the single source of truth for which
	// documents exist, derived by scanning this field.
	Source string

	// ChunkIndex is the 0-based position in document order.
	ChunkIndex int

	// TotalChunks is the document's final chunk count, stamped into
	// every chunk once splitting completes.
	TotalChunks int
}

// ChunkID derives the collection-wide unique identifier for a chunk.
// The derivation is deterministic so re-chunking an identical document
// yields identical IDs.
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", source, index)
}

// NewChunk builds a validated chunk without an embedding.
// It enforces the creation invariants: non-empty text, non-empty source,
// and a chunk index within [0, totalChunks).
func NewChunk(source, text string, index, total int) (Chunk, error) {
	if source == "" {
		return Chunk{}, fmt.Errorf("%w: chunk source is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return Chunk{}, fmt.Errorf("%w: chunk text is empty", ErrInvalidInput)
	}
	if index < 0 {
		return Chunk{}, fmt.Errorf("%w: chunk index %d is negative", ErrInvalidInput, index)
	}
	if total < 1 {
		return Chunk{}, fmt.Errorf("%w: total chunks %d is less than 1", ErrInvalidInput, total)
	}
	if index >= total {
		return Chunk{}, fmt.Errorf("%w: chunk index %d outside total %d", ErrInvalidInput, index, total)
	}
	return Chunk{
		ID:   ChunkID(source, index),
		Text: text,
		Metadata: ChunkMetadata{
			Source:      source,
			ChunkIndex:  index,
			TotalChunks: total,
		},
	}, nil
}

// DocumentInfo describes one logical upload, derived entirely from
// stored chunk metadata. A document exists iff its chunk count is
// positive; there is no separate document registry.
type DocumentInfo struct {
	// Source is the file name the document was ingested under.
	Source string

	// ChunkCount is the number of stored chunks whose metadata source
	// equals Source.
	ChunkCount int
}

// IngestResult reports one document ingestion.
type IngestResult struct {
	// Source is the file name the document was ingested under.
	Source string

	// ChunksAdded is how many chunks were stored. Zero when skipped.
	ChunksAdded int

	// Skipped is true when the source already existed and the call
	// was a no-op.
	Skipped bool
}
