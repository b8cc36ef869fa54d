package driven

import "github.com/custodia-labs/grimoire-cli/internal/core/domain"

// AIConfigValidator checks that provider settings actually work by
// connecting to the backend. Used by the settings wizard so bad
// credentials surface at configuration time, not first use.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
