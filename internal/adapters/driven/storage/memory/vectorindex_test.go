package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

func embeddedChunk(t *testing.T, source, text string, index, total int, embedding []float32) domain.Chunk {
	t.Helper()

	chunk, err := domain.NewChunk(source, text, index, total)
	require.NoError(t, err)
	chunk.Embedding = embedding
	return chunk
}

func TestNewVectorIndex(t *testing.T) {
	idx := NewVectorIndex()
	require.NotNil(t, idx)
	assert.NotNil(t, idx.chunks)
}

func TestVectorIndex_UpsertAndQuery(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "exact", 0, 1, []float32{1, 0}),
		embeddedChunk(t, "b.txt", "orthogonal", 0, 1, []float32{0, 1}),
	})
	require.NoError(t, err)

	hits, err := idx.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "exact", hits[0].Text)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "orthogonal", hits[1].Text)
	assert.InDelta(t, 1.0, hits[1].Distance, 1e-6)
}

func TestVectorIndex_Upsert_Validation(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, []domain.Chunk{{Text: "no id", Embedding: []float32{1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	chunk, err := domain.NewChunk("a.txt", "no embedding", 0, 1)
	require.NoError(t, err)
	err = idx.Upsert(ctx, []domain.Chunk{chunk})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// A bad chunk anywhere in the batch rejects the whole batch.
	err = idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "fine", 0, 2, []float32{1}),
		chunk,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	count, err := idx.TotalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestVectorIndex_Upsert_Overwrite(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "first", 0, 1, []float32{1, 0}),
	}))
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "second", 0, 1, []float32{1, 0}),
	}))

	count, err := idx.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := idx.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "second", hits[0].Text)
}

func TestVectorIndex_Query_EdgeCases(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	_, err := idx.Query(ctx, nil, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	hits, err := idx.Query(ctx, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "one", 0, 1, []float32{1, 0}),
	}))

	hits, err = idx.Query(ctx, []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Query(ctx, []float32{1, 0}, 99)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorIndex_Query_DeterministicTieBreak(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	// Identical vectors, so ordering falls back to chunk ID.
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "b.txt", "second by name", 0, 1, []float32{1, 0}),
		embeddedChunk(t, "a.txt", "first by name", 0, 1, []float32{1, 0}),
	}))

	hits, err := idx.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a.txt_chunk_0", hits[0].ChunkID)
	assert.Equal(t, "b.txt_chunk_0", hits[1].ChunkID)
}

func TestVectorIndex_SourceAccounting(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "zebra.txt", "z", 0, 1, []float32{1}),
		embeddedChunk(t, "apple.txt", "a one", 0, 2, []float32{1}),
		embeddedChunk(t, "apple.txt", "a two", 1, 2, []float32{1}),
	}))

	sources, err := idx.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple.txt", "zebra.txt"}, sources)

	count, err := idx.CountForSource(ctx, "apple.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	exists, err := idx.Exists(ctx, "zebra.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = idx.Exists(ctx, "missing.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	total, err := idx.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestVectorIndex_Clear(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, idx.Clear(ctx))

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		embeddedChunk(t, "a.txt", "one", 0, 1, []float32{1}),
	}))
	require.NoError(t, idx.Clear(ctx))

	count, err := idx.TotalCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, idx.Close())
}

func TestVectorIndex_ConcurrentAccess(t *testing.T) {
	idx := NewVectorIndex()
	ctx := context.Background()

	chunks := make([]domain.Chunk, 10)
	for i := range chunks {
		chunks[i] = embeddedChunk(t, "shared.txt", "content", i, 10, []float32{1, 0})
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = idx.Upsert(ctx, []domain.Chunk{chunks[n]})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = idx.Query(ctx, []float32{1, 0}, 3)
		}()
	}
	wg.Wait()

	count, err := idx.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestCosineDistance_Degenerate(t *testing.T) {
	assert.InDelta(t, 1.0, cosineDistance([]float32{1, 0}, []float32{1}), 1e-6)
	assert.InDelta(t, 1.0, cosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineDistance([]float32{2, 0}, []float32{5, 0}), 1e-6)
	assert.InDelta(t, 2.0, cosineDistance([]float32{1, 0}, []float32{-3, 0}), 1e-6)
}
