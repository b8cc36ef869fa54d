package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown files. The markup is kept as-is: headings,
// lists and code fences carry meaning the chunker's separators exploit,
// so stripping them would only lose structure.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".md"}
}

// Extract decodes the source bytes as UTF-8 with replacement of invalid
// sequences.
func (e *Extractor) Extract(_ context.Context, src domain.NamedSource) (string, error) {
	if src == nil {
		return "", fmt.Errorf("%w: nil source", domain.ErrInvalidInput)
	}

	data, err := src.Bytes()
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrNoExtractableText, src.Name(), err)
	}

	text := strings.ToValidUTF8(string(data), "�")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrNoExtractableText, src.Name())
	}
	return text, nil
}
