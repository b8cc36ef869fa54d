package driving

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// AnswerService answers questions against the indexed collection.
//
// Retrieval and generation are separate calls so the caller can
// inspect similarity scores between them (e.g. to flag low-confidence
// context) and choose batch or streaming generation.
type AnswerService interface {
	// Retrieve embeds the question and returns the most similar stored
	// chunks, highest similarity first. k <= 0 selects the configured
	// default. Returns domain.ErrNoDocumentsLoaded (wrapped) when the
	// collection is empty; the check runs before any embedding work.
	Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievalResult, error)

	// Answer generates a grounded answer from retrieved context in one
	// call.
	Answer(ctx context.Context, question string, results []domain.RetrievalResult) (domain.Answer, error)

	// AnswerStream generates a grounded answer as a fragment stream.
	// Sources and model name are known up front; only the text is
	// lazy. Generation failures after the stream starts surface as a
	// final visible error fragment, never a dropped partial answer.
	AnswerStream(ctx context.Context, question string, results []domain.RetrievalResult) (domain.AnswerStream, error)
}
