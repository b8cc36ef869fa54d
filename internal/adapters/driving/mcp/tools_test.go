package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns grounded answer with sources", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			results: []domain.RetrievalResult{
				{ChunkID: "notes.txt_chunk_0", Text: "The sky is blue.", Source: "notes.txt", ChunkIndex: 0, Similarity: 0.91},
				{ChunkID: "notes.txt_chunk_1", Text: "Water is wet.", Source: "notes.txt", ChunkIndex: 1, Similarity: 0.62},
			},
			answer: domain.Answer{
				Text:    "The sky is blue [Source: notes.txt, Chunk #0].",
				Sources: []domain.Citation{{Source: "notes.txt", ChunkIndex: 0}, {Source: "notes.txt", ChunkIndex: 1}},
				Model:   "llama-3.1-8b-instant",
				Elapsed: 1200 * time.Millisecond,
			},
		}

		ports := &Ports{Answer: mockAnswer, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Question: "What color is the sky?"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "The sky is blue [Source: notes.txt, Chunk #0].", output.Answer)
		assert.Equal(t, "llama-3.1-8b-instant", output.Model)
		require.Len(t, output.Sources, 2)
		assert.Equal(t, "notes.txt", output.Sources[0].Source)
		assert.Equal(t, 0, output.Sources[0].ChunkIndex)
		assert.Equal(t, 0.91, output.Sources[0].Relevance)
		assert.False(t, output.LowConfidence)
		assert.InDelta(t, 1.2, output.ElapsedSeconds, 0.001)
	})

	t.Run("flags low confidence retrieval", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			results: []domain.RetrievalResult{
				{ChunkID: "notes.txt_chunk_0", Text: "unrelated", Source: "notes.txt", ChunkIndex: 0, Similarity: 0.1},
			},
			answer: domain.Answer{Text: "I don't know.", Model: "llama-3.1-8b-instant"},
		}

		ports := &Ports{Answer: mockAnswer, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "quantum chromodynamics?"})

		require.NoError(t, err)
		assert.True(t, output.LowConfidence)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			retrieveErr: domain.ErrNoDocumentsLoaded,
		}

		ports := &Ports{Answer: mockAnswer, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "anything"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoDocumentsLoaded)
	})

	t.Run("returns error on generation failure", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			results:   []domain.RetrievalResult{{ChunkID: "a_chunk_0", Text: "x", Source: "a", Similarity: 0.9}},
			answerErr: errors.New("backend unreachable"),
		}

		ports := &Ports{Answer: mockAnswer, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "anything"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend unreachable")
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents and totals", func(t *testing.T) {
		mockLibrary := &mockLibraryService{
			docs: []domain.DocumentInfo{
				{Source: "guide.md", ChunkCount: 4},
				{Source: "notes.txt", ChunkCount: 7},
			},
			total: 11,
		}

		ports := &Ports{Answer: &mockAnswerService{}, Library: mockLibrary}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 11, output.TotalChunks)
		require.Len(t, output.Documents, 2)
		assert.Equal(t, "guide.md", output.Documents[0].Source)
		assert.Equal(t, 4, output.Documents[0].ChunkCount)
	})

	t.Run("returns error on library failure", func(t *testing.T) {
		mockLibrary := &mockLibraryService{err: errors.New("storage error")}

		ports := &Ports{Answer: &mockAnswerService{}, Library: mockLibrary}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage error")
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests a readable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("The sky is blue."), 0o600))

		mockIngest := &mockIngestService{
			result: domain.IngestResult{ChunksAdded: 1},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Ingest: mockIngest, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", output.Source)
		assert.Equal(t, 1, output.ChunksAdded)
		assert.False(t, output.Skipped)
	})

	t.Run("reports duplicate as skipped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("The sky is blue."), 0o600))

		mockIngest := &mockIngestService{
			result: domain.IngestResult{Source: "notes.txt", Skipped: true},
		}

		ports := &Ports{Answer: &mockAnswerService{}, Ingest: mockIngest, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: path})

		require.NoError(t, err)
		assert.True(t, output.Skipped)
		assert.Equal(t, 0, output.ChunksAdded)
	})

	t.Run("returns error for unreadable path", func(t *testing.T) {
		ports := &Ports{Answer: &mockAnswerService{}, Ingest: &mockIngestService{}, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: filepath.Join(t.TempDir(), "missing.txt")})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading")
	})

	t.Run("returns error on ingest failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.xyz")
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

		mockIngest := &mockIngestService{err: domain.ErrUnsupportedFormat}

		ports := &Ports{Answer: &mockAnswerService{}, Ingest: mockIngest, Library: &mockLibraryService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: path})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}
