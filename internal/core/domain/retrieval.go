package domain

import "math"

// LowConfidenceThreshold is the mean similarity below which a retrieval
// is considered weakly grounded. Callers use it to flag answers that
// lean on barely-relevant context.
const LowConfidenceThreshold = 0.3

// RetrievalResult is one stored chunk scored against a question.
// Ephemeral: never persisted.
type RetrievalResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Text is the chunk's content, fed verbatim into prompt assembly.
	Text string

	// Source is the originating file name.
	Source string

	// ChunkIndex is the chunk's 0-based position in its document.
	ChunkIndex int

	// Similarity is in [0, 1]: 1 = same direction as the question
	// vector, 0 = opposite. Rounded to 4 decimal places.
	Similarity float64
}

// SimilarityFromDistance converts a cosine distance in [0, 2] to a
// similarity score in [0, 1], rounded to 4 decimal places for display
// stability. Out-of-range distances from floating-point drift are
// clamped rather than producing scores below 0 or above 1.
func SimilarityFromDistance(distance float64) float64 {
	s := 1 - distance/2
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return math.Round(s*10000) / 10000
}

// AverageSimilarity returns the mean similarity across results,
// or 0 for an empty slice.
func AverageSimilarity(results []RetrievalResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Similarity
	}
	return sum / float64(len(results))
}
