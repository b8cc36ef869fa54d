package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

func TestPromptBuilder_Build_MessageShape(t *testing.T) {
	builder := NewPromptBuilder(testPromptStore())

	results := []domain.RetrievalResult{
		{ChunkID: "guide.md_chunk_0", Text: "Alpha text", Source: "guide.md", ChunkIndex: 0, Similarity: 1},
	}

	messages, err := builder.Build("what is alpha?", results)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
	assert.Equal(t, "answer from context only", messages[0].Content)
}

func TestPromptBuilder_Build_ContextBlocks(t *testing.T) {
	builder := NewPromptBuilder(testPromptStore())

	results := []domain.RetrievalResult{
		{ChunkID: "guide.md_chunk_0", Text: "Alpha text", Source: "guide.md", ChunkIndex: 0, Similarity: 1},
		{ChunkID: "manual.pdf_chunk_3", Text: "Beta text", Source: "manual.pdf", ChunkIndex: 3, Similarity: 0.5},
	}

	messages, err := builder.Build("what is alpha?", results)

	require.NoError(t, err)
	user := messages[1].Content
	assert.Contains(t, user, "[Source: guide.md, Chunk #0] (relevance: 100%)\nAlpha text")
	assert.Contains(t, user, "[Source: manual.pdf, Chunk #3] (relevance: 50%)\nBeta text")
	assert.Contains(t, user, "Question: what is alpha?")

	// Blocks keep retrieval order and stay separated.
	first := strings.Index(user, "guide.md")
	second := strings.Index(user, "manual.pdf")
	assert.Less(t, first, second)
	assert.Contains(t, user, "\n\n---\n\n")
}

func TestPromptBuilder_Build_EmptyResults(t *testing.T) {
	builder := NewPromptBuilder(testPromptStore())

	messages, err := builder.Build("anything there?", nil)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1].Content, "Question: anything there?")
}

func TestPromptBuilder_Build_StoreError(t *testing.T) {
	builder := NewPromptBuilder(&mockPromptStore{loadErr: errors.New("disk gone")})

	_, err := builder.Build("q", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading system prompt")
}

func TestPromptBuilder_Build_DefaultTemplates(t *testing.T) {
	store, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	builder := NewPromptBuilder(store)

	results := []domain.RetrievalResult{
		{ChunkID: "notes.txt_chunk_0", Text: "The sky is blue.", Source: "notes.txt", ChunkIndex: 0, Similarity: 0.91},
	}

	messages, err := builder.Build("What color is the sky?", results)

	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "I don't have enough information in the uploaded documents")
	user := messages[1].Content
	assert.Contains(t, user, "Context from uploaded documents:")
	assert.Contains(t, user, "[Source: notes.txt, Chunk #0] (relevance: 91%)\nThe sky is blue.")
	assert.Contains(t, user, "Question: What color is the sky?")
	assert.Contains(t, user, "cite your sources")
}
