package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestExtensions(t *testing.T) {
	extractor := New()
	exts := extractor.Extensions()

	require.NotEmpty(t, exts)
	assert.Contains(t, exts, ".md")
	assert.Len(t, exts, 1)
}

func TestExtract_MarkupPreserved(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	content := `# Title

Some **bold** text and a list:

- one
- two

` + "```go\nfunc main() {}\n```"

	src := domain.NewByteSource("README.md", []byte(content))

	text, err := extractor.Extract(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, content, text)
	assert.Contains(t, text, "# Title")
	assert.Contains(t, text, "```go")
}

func TestExtract_NilSource(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestExtract_EmptyContent(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	src := domain.NewByteSource("empty.md", []byte("\n\n  \n"))

	text, err := extractor.Extract(ctx, src)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Empty(t, text)
}

func TestExtract_InvalidUTF8Replaced(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	src := domain.NewByteSource("mangled.md", []byte("# Heading\n\xc3\x28body"))

	text, err := extractor.Extract(ctx, src)
	require.NoError(t, err)
	assert.Contains(t, text, "# Heading")
	assert.Contains(t, text, "�")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}
