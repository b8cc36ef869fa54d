package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches uploads to extractors by file extension.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
}

// Register adds an extractor for each extension it claims.
// A later registration for the same extension wins.
func (r *Registry) Register(extractor driven.Extractor) {
	for _, ext := range extractor.Extensions() {
		r.byExtension[strings.ToLower(ext)] = extractor
	}
}

// Extract dispatches to the extractor for the source's extension.
func (r *Registry) Extract(ctx context.Context, src domain.NamedSource) (string, error) {
	if src == nil {
		return "", fmt.Errorf("%w: nil source", domain.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(src.Name()))
	extractor, ok := r.byExtension[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFormat, src.Name(), strings.Join(r.SupportedExtensions(), ", "))
	}
	return extractor.Extract(ctx, src)
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
