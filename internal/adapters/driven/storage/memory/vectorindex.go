// Package memory provides an in-memory implementation of the vector
// index driven port. Nothing survives process exit; it exists for
// tests and for ephemeral sessions that never touch disk.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Queries are brute-force scans, which is fine at the collection sizes
// a single process session produces.
type VectorIndex struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		chunks: make(map[string]domain.Chunk),
	}
}

// Upsert inserts or overwrites chunks by ID. The batch is validated
// up front so a bad chunk never leaves a partial write behind.
func (s *VectorIndex) Upsert(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("%w: chunk has empty ID", domain.ErrInvalidInput)
		}
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: chunk %s has no embedding", domain.ErrInvalidInput, chunk.ID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Query returns the k nearest chunks to the query vector, closest
// first. Ties break on chunk ID so results are deterministic.
func (s *VectorIndex) Query(_ context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	s.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		hits = append(hits, driven.VectorHit{
			ChunkID:  chunk.ID,
			Text:     chunk.Text,
			Metadata: chunk.Metadata,
			Distance: cosineDistance(vector, chunk.Embedding),
		})
	}
	s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Sources returns the distinct source names, lexicographically sorted.
func (s *VectorIndex) Sources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, chunk := range s.chunks {
		seen[chunk.Metadata.Source] = struct{}{}
	}

	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources, nil
}

// CountForSource returns how many stored chunks belong to the named source.
func (s *VectorIndex) CountForSource(_ context.Context, source string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, chunk := range s.chunks {
		if chunk.Metadata.Source == source {
			count++
		}
	}
	return count, nil
}

// Exists reports whether any chunk belongs to the named source.
func (s *VectorIndex) Exists(_ context.Context, source string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, chunk := range s.chunks {
		if chunk.Metadata.Source == source {
			return true, nil
		}
	}
	return false, nil
}

// TotalCount returns the number of stored chunks.
func (s *VectorIndex) TotalCount(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Clear destroys all stored chunks.
func (s *VectorIndex) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]domain.Chunk)
	return nil
}

// Close releases nothing; the index lives entirely in memory.
func (s *VectorIndex) Close() error {
	return nil
}

// cosineDistance is 1 minus the cosine similarity of a and b.
// Mismatched dimensions and zero-magnitude vectors score distance 1,
// the "unrelated" midpoint, rather than failing the query.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
