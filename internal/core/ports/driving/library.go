package driving

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// LibraryService reports and manages the document collection.
type LibraryService interface {
	// Documents lists ingested documents with chunk counts, sorted by
	// source name. Always derived from stored chunk metadata.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// TotalChunks returns the collection-wide chunk count.
	TotalChunks(ctx context.Context) (int, error)

	// Clear destroys every stored chunk. Safe when already empty.
	Clear(ctx context.Context) error
}
