package driving

import "github.com/custodia-labs/grimoire-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save validates and persists application settings.
	Save(settings *domain.Settings) error

	// SetLLMProvider configures the LLM backend.
	SetLLMProvider(provider domain.LLMProvider, model, apiKey string) error

	// SetEmbeddingProvider configures the embedding backend.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, baseURL, apiKey string) error

	// Validate checks current settings against startup requirements.
	Validate() error

	// ValidateLLMConfig verifies the LLM backend responds, by pinging it.
	ValidateLLMConfig() error

	// ValidateEmbeddingConfig verifies the embedding backend responds,
	// by pinging it.
	ValidateEmbeddingConfig() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
