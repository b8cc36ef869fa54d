package driven

import "github.com/custodia-labs/grimoire-cli/internal/core/domain"

// Chunker splits extracted text into overlapping, size-bounded chunks
// with positional metadata. Pure: identical input and configuration
// always produce identical output.
type Chunker interface {
	// Chunk splits text into document-ordered chunks for the given
	// source name. Chunk indices run 0..n-1 and every chunk carries
	// the final total count in its metadata.
	Chunk(text, source string) ([]domain.Chunk, error)
}
