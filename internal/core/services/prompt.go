package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

// contextSeparator divides rendered context blocks inside the user
// message. Blocks must stay visually distinct or the model attributes
// citations to the wrong chunk.
const contextSeparator = "\n\n---\n\n"

// PromptBuilder assembles the chat messages for grounded answering:
// a fixed system instruction and a user message carrying the retrieved
// context and the question.
type PromptBuilder struct {
	prompts driven.PromptStore
}

// NewPromptBuilder creates a prompt builder backed by the given store.
func NewPromptBuilder(prompts driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{prompts: prompts}
}

// Build renders the two-message prompt. Context blocks keep retrieval
// order (highest similarity first) and each one names its source file,
// chunk ordinal and relevance so the model can cite it inline.
func (b *PromptBuilder) Build(question string, results []domain.RetrievalResult) ([]domain.Message, error) {
	system, err := b.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return nil, fmt.Errorf("loading system prompt: %w", err)
	}
	userTemplate, err := b.prompts.Load(driven.PromptAnswerUser)
	if err != nil {
		return nil, fmt.Errorf("loading user prompt: %w", err)
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[Source: %s, Chunk #%d] (relevance: %.0f%%)\n%s",
			r.Source, r.ChunkIndex, r.Similarity*100, r.Text)
	}
	contextText := strings.Join(blocks, contextSeparator)

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: fmt.Sprintf(userTemplate, contextText, question)},
	}

	totalChars := 0
	for _, m := range messages {
		totalChars += len(m.Content)
	}
	logger.Debug("Prompt built: %d chars, %d context chunks", totalChars, len(results))

	return messages, nil
}
