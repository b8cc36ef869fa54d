package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService reports and manages the document collection. Document
// identity is derived entirely from stored chunk metadata; there is no
// separate registry to fall out of sync with.
type LibraryService struct {
	vectorIndex driven.VectorIndex
}

// NewLibraryService creates a library service over the given index.
func NewLibraryService(vectorIndex driven.VectorIndex) *LibraryService {
	return &LibraryService{vectorIndex: vectorIndex}
}

// Documents lists ingested documents with chunk counts, sorted by
// source name.
func (s *LibraryService) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	sources, err := s.vectorIndex.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	docs := make([]domain.DocumentInfo, 0, len(sources))
	for _, source := range sources {
		count, err := s.vectorIndex.CountForSource(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("counting chunks for %s: %w", source, err)
		}
		docs = append(docs, domain.DocumentInfo{Source: source, ChunkCount: count})
	}
	logger.Debug("Library holds %d documents", len(docs))
	return docs, nil
}

// TotalChunks returns the collection-wide chunk count.
func (s *LibraryService) TotalChunks(ctx context.Context) (int, error) {
	count, err := s.vectorIndex.TotalCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Clear destroys every stored chunk. Safe when already empty.
func (s *LibraryService) Clear(ctx context.Context) error {
	if err := s.vectorIndex.Clear(ctx); err != nil {
		return fmt.Errorf("clearing collection: %w", err)
	}
	logger.Info("Collection cleared")
	return nil
}
