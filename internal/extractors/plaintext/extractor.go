package plaintext

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract decodes the source bytes as UTF-8. Undecodable sequences are
// replaced with U+FFFD rather than failing the whole file.
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
