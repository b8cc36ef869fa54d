package driving

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// IngestService loads one document into the collection.
type IngestService interface {
	// Ingest runs extract, chunk, embed, store for a single upload.
	// Re-ingesting an already-present source name is a no-op reported
	// as skipped. Unsupported formats and empty extractions are
	// per-file errors; callers processing a batch continue past them.
	Ingest(ctx context.Context, src domain.NamedSource) (domain.IngestResult, error)
}
