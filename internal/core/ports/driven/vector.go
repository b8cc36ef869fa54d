package driven

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// VectorIndex is the persistent chunk collection: it maps chunk IDs to
// (vector, text, metadata) tuples and answers nearest-neighbour
// queries. It is the single source of truth for which documents exist.
//
// Reported distance is raw cosine distance in [0, 2]; converting it to
// a similarity score is the retriever's job.
type VectorIndex interface {
	// Upsert inserts or overwrites chunks by ID in one atomic batch: a
	// concurrent reader sees all of the batch or none of it. Chunks
	// must carry embeddings. Empty input is a no-op.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the k nearest chunks to the query vector, closest
	// first. k is clamped to the collection size: asking for more than
	// exist returns everything, never an error. An empty collection
	// returns an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]VectorHit, error)

	// Sources returns the distinct metadata source values across all
	// stored chunks, lexicographically sorted.
	Sources(ctx context.Context) ([]string, error)

	// CountForSource returns how many stored chunks belong to the
	// named source.
	CountForSource(ctx context.Context, source string) (int, error)

	// Exists reports whether any chunk belongs to the named source.
	Exists(ctx context.Context, source string) (bool, error)

	// TotalCount returns the number of stored chunks.
	TotalCount(ctx context.Context) (int, error)

	// Clear destroys all stored chunks. Safe on an empty collection.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit is one nearest-neighbour match.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Text is the stored chunk content.
	Text string

	// Metadata is the stored chunk position.
	Metadata domain.ChunkMetadata

	// Distance is the raw cosine distance to the query vector, in [0, 2].
	Distance float64
}
