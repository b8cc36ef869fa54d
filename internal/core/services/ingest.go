package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads one document into the collection through the
// extract, chunk, embed, store pipeline.
type IngestService struct {
	registry         driven.ExtractorRegistry
	chunker          driven.Chunker
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
}

// NewIngestService creates an ingest service over the given backends.
func NewIngestService(
	registry driven.ExtractorRegistry,
	chunker driven.Chunker,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
) *IngestService {
	return &IngestService{
		registry:         registry,
		chunker:          chunker,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
	}
}

// Ingest runs extract, chunk, embed, store for a single upload.
// An already-present source name is reported as skipped before any
// extraction or backend work happens.
func (s *IngestService) Ingest(ctx context.Context, src domain.NamedSource) (domain.IngestResult, error) {
	if src == nil {
		return domain.IngestResult{}, fmt.Errorf("%w: source is nil", domain.ErrInvalidInput)
	}
	name := src.Name()
	if strings.TrimSpace(name) == "" {
		return domain.IngestResult{}, fmt.Errorf("%w: source name is empty", domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")
	logger.Debug("Source: %s", name)

	exists, err := s.vectorIndex.Exists(ctx, name)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("checking source %s: %w", name, err)
	}
	if exists {
		logger.Info("Source %s already ingested, skipping", name)
		return domain.IngestResult{Source: name, Skipped: true}, nil
	}

	text, err := s.registry.Extract(ctx, src)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("extracting %s: %w", name, err)
	}
	logger.Debug("Extracted %d chars", len(text))

	chunks, err := s.chunker.Chunk(text, name)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("chunking %s: %w", name, err)
	}
	if len(chunks) == 0 {
		// A document exists iff it has stored chunks, so storing
		// nothing would make this upload silently invisible.
		return domain.IngestResult{}, fmt.Errorf("%w: %s produced no chunks", domain.ErrNoExtractableText, name)
	}
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("embedding %s: %w", name, err)
	}
	if len(vectors) != len(chunks) {
		return domain.IngestResult{}, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingBackend, len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.vectorIndex.Upsert(ctx, chunks); err != nil {
		return domain.IngestResult{}, fmt.Errorf("storing %s: %w", name, err)
	}

	logger.Info("Ingested %s: %d chunks", name, len(chunks))
	return domain.IngestResult{Source: name, ChunksAdded: len(chunks)}, nil
}
