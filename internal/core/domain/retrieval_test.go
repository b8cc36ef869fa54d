package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSimilarityFromDistance tests the distance-to-similarity transform
func TestSimilarityFromDistance(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		expected float64
	}{
		{
			name:     "identical direction",
			distance: 0,
			expected: 1,
		},
		{
			name:     "opposite direction",
			distance: 2,
			expected: 0,
		},
		{
			name:     "orthogonal",
			distance: 1,
			expected: 0.5,
		},
		{
			name:     "typical near match",
			distance: 0.6,
			expected: 0.7,
		},
		{
			name:     "rounds to four decimal places",
			distance: 0.66666,
			expected: 0.6667,
		},
		{
			name:     "drift below zero clamps to one",
			distance: -0.0004,
			expected: 1,
		},
		{
			name:     "drift above two clamps to zero",
			distance: 2.0006,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SimilarityFromDistance(tt.distance), 1e-9)
		})
	}
}

// TestAverageSimilarity tests mean similarity across results
func TestAverageSimilarity(t *testing.T) {
	assert.Zero(t, AverageSimilarity(nil))
	assert.Zero(t, AverageSimilarity([]RetrievalResult{}))

	results := []RetrievalResult{
		{Similarity: 0.9},
		{Similarity: 0.5},
		{Similarity: 0.1},
	}
	assert.InDelta(t, 0.5, AverageSimilarity(results), 1e-9)

	// A weak retrieval falls under the low-confidence threshold.
	weak := []RetrievalResult{{Similarity: 0.1}, {Similarity: 0.2}}
	assert.Less(t, AverageSimilarity(weak), LowConfidenceThreshold)
}

// TestCitationsFor tests attribution derivation from retrieval order
func TestCitationsFor(t *testing.T) {
	assert.Nil(t, CitationsFor(nil))

	results := []RetrievalResult{
		{Source: "b.pdf", ChunkIndex: 4, Similarity: 0.92},
		{Source: "a.txt", ChunkIndex: 0, Similarity: 0.55},
	}
	citations := CitationsFor(results)

	assert.Equal(t, []Citation{
		{Source: "b.pdf", ChunkIndex: 4},
		{Source: "a.txt", ChunkIndex: 0},
	}, citations)
}
