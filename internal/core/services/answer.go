package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService answers questions against the indexed collection:
// it embeds the question, retrieves the nearest stored chunks and
// prompts the language model with them.
type AnswerService struct {
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	promptBuilder    *PromptBuilder
	settings         domain.Settings
}

// NewAnswerService creates an answer service over the given backends.
// The embedding service must be the same instance used at ingestion
// time so question vectors and chunk vectors share a metric space.
func NewAnswerService(
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	promptBuilder *PromptBuilder,
	settings domain.Settings,
) *AnswerService {
	return &AnswerService{
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
		promptBuilder:    promptBuilder,
		settings:         settings,
	}
}

// Retrieve embeds the question and returns the most similar stored
// chunks, highest similarity first. k <= 0 selects the configured
// default.
func (s *AnswerService) Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievalResult, error) {
	logger.Section("Retrieval")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	// The emptiness check runs before any embedding work so asking
	// against an empty collection never costs a backend call.
	total, err := s.vectorIndex.TotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: ingest documents before asking questions", domain.ErrNoDocumentsLoaded)
	}

	if k <= 0 {
		k = s.settings.Retrieval.TopK
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}
	logger.Debug("Question: %q", question)
	logger.Debug("Top-k: %d (collection size %d)", k, total)

	vector, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := s.vectorIndex.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, h := range hits {
		results[i] = domain.RetrievalResult{
			ChunkID:    h.ChunkID,
			Text:       h.Text,
			Source:     h.Metadata.Source,
			ChunkIndex: h.Metadata.ChunkIndex,
			Similarity: domain.SimilarityFromDistance(h.Distance),
		}
	}

	if avg := domain.AverageSimilarity(results); avg < domain.LowConfidenceThreshold {
		logger.Warn("Low confidence retrieval: average similarity %.4f", avg)
	}
	logger.Info("Retrieved %d chunks", len(results))

	return results, nil
}

// Answer generates a grounded answer from retrieved context in one
// call. The configured request timeout bounds the generation.
func (s *AnswerService) Answer(ctx context.Context, question string, results []domain.RetrievalResult) (domain.Answer, error) {
	logger.Section("Generation")

	messages, err := s.promptBuilder.Build(question, results)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("building prompt: %w", err)
	}

	if timeout := s.settings.LLM.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.llmService.Chat(ctx, messages, s.chatOptions())
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generating answer: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info("Answer generated in %.2fs (%d chars)", elapsed.Seconds(), len(text))

	return domain.Answer{
		Text:    text,
		Sources: domain.CitationsFor(results),
		Model:   s.llmService.ModelName(),
		Elapsed: elapsed,
	}, nil
}

// AnswerStream generates a grounded answer as a fragment stream.
// No request timeout applies: a healthy stream may legitimately run
// longer than any single-shot deadline, and the caller's context still
// cancels it.
func (s *AnswerService) AnswerStream(ctx context.Context, question string, results []domain.RetrievalResult) (domain.AnswerStream, error) {
	logger.Section("Generation (streaming)")

	messages, err := s.promptBuilder.Build(question, results)
	if err != nil {
		return domain.AnswerStream{}, fmt.Errorf("building prompt: %w", err)
	}

	deltas, err := s.llmService.ChatStream(ctx, messages, s.chatOptions())
	if err != nil {
		return domain.AnswerStream{}, fmt.Errorf("starting stream: %w", err)
	}

	fragments := make(chan string)
	go func() {
		defer close(fragments)
		for delta := range deltas {
			if delta.Err != nil {
				// Mid-stream failures surface as a visible trailing
				// fragment; the partial answer already delivered
				// stays on screen.
				logger.Warn("Stream failed mid-answer: %v", delta.Err)
				sendFragment(ctx, fragments, fmt.Sprintf("\n\n⚠️ Error: %v", delta.Err))
				return
			}
			if delta.Content == "" {
				continue
			}
			if !sendFragment(ctx, fragments, delta.Content) {
				return
			}
		}
	}()

	return domain.AnswerStream{
		Sources:   domain.CitationsFor(results),
		Model:     s.llmService.ModelName(),
		Fragments: fragments,
	}, nil
}

func (s *AnswerService) chatOptions() driven.ChatOptions {
	return driven.ChatOptions{
		MaxTokens:   s.settings.LLM.MaxTokens,
		Temperature: s.settings.LLM.Temperature,
	}
}

// sendFragment delivers one fragment unless the consumer has gone away.
func sendFragment(ctx context.Context, out chan<- string, fragment string) bool {
	select {
	case out <- fragment:
		return true
	case <-ctx.Done():
		return false
	}
}
