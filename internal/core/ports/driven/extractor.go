package driven

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// Extractor turns one upload format into plain text.
// Each extractor handles specific file extensions (e.g. PDF, Markdown).
type Extractor interface {
	// Extensions returns the file extensions this extractor handles,
	// lower-case and dot-prefixed (e.g. ".pdf").
	Extensions() []string

	// Extract reads the source once and returns its text content.
	// Returns domain.ErrNoExtractableText (wrapped) when the result is
	// empty or whitespace-only.
	Extract(ctx context.Context, src domain.NamedSource) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for an upload
// by its file extension, case-insensitively.
type ExtractorRegistry interface {
	// Extract dispatches to the extractor registered for the source's
	// extension. Returns domain.ErrUnsupportedFormat (wrapped) when no
	// extractor claims the extension.
	Extract(ctx context.Context, src domain.NamedSource) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedExtensions returns every registered extension, sorted.
	SupportedExtensions() []string
}

// CommandRunner executes an external command and captures its output.
// It exists so extractors that shell out (PDF text extraction) stay
// testable without the binary installed.
type CommandRunner interface {
	// Run executes name with args and returns combined stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
