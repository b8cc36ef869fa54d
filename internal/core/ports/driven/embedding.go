package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Ingestion and querying must go through the same service instance so
// both sides of a similarity comparison live in the same metric space;
// mixing models is a correctness bug, not a quality issue.
//
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. Backend
	// failures (network, auth, malformed response) wrap
	// domain.ErrEmbeddingBackend.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one
	// backend call. Output order matches input order: result[i] is the
	// embedding of texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
