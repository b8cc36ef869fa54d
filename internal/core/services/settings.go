package services

import (
	"fmt"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	store       driven.SettingsStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service. The validator is
// optional; the ping-based checks pass when it is nil.
func NewSettingsService(store driven.SettingsStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		store:       store,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &settings, nil
}

// Save validates and persists application settings. Invalid settings
// never reach storage.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(*settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM backend.
func (s *SettingsService) SetLLMProvider(provider domain.LLMProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", domain.ErrUnsupportedProvider, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: llm provider %s requires an API key", domain.ErrInvalidSettings, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Use the provided model or fall back to the provider default.
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	settings.LLM.APIKey = apiKey

	// Persist without full validation: the other backend may not be
	// configured yet, and setter order must not matter.
	if err := s.store.Save(*settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding backend.
//
// Changing the embedding model after documents are ingested strands the
// stored vectors in a different metric space; callers are expected to
// clear and re-ingest. The service does not enforce that here because
// the collection may legitimately be empty.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedProvider, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: embedding provider %s requires an API key", domain.ErrInvalidSettings, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Use the provided model or fall back to the provider default.
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Local providers need an endpoint; cloud providers use their
	// fixed API host.
	switch {
	case provider.IsLocal() && baseURL != "":
		settings.Embedding.BaseURL = baseURL
	case provider.IsLocal() && settings.Embedding.BaseURL == "":
		settings.Embedding.BaseURL = domain.DefaultOllamaBaseURL
	case !provider.IsLocal():
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	if err := s.store.Save(*settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Validate checks current settings against startup requirements.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// ValidateLLMConfig validates the current LLM configuration by pinging
// the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// ValidateEmbeddingConfig validates the current embedding configuration
// by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}
