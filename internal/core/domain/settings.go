package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// CollectionName is the fixed identity of the single on-disk chunk
// collection within the configured storage location.
const CollectionName = "knowledge_base"

// LLMProvider identifies a language-model backend.
type LLMProvider string

// Available LLM providers.
const (
	// LLMProviderGroq is the Groq cloud API (OpenAI-compatible).
	LLMProviderGroq LLMProvider = "groq"

	// LLMProviderOpenAI is the OpenAI cloud API.
	LLMProviderOpenAI LLMProvider = "openai"
)

// IsValid returns true if the LLM provider is recognised.
func (p LLMProvider) IsValid() bool {
	switch p {
	case LLMProviderGroq, LLMProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// Both supported LLM providers are cloud services.
func (p LLMProvider) RequiresAPIKey() bool {
	return p == LLMProviderGroq || p == LLMProviderOpenAI
}

// APIKeyEnvVar returns the environment variable consulted for this
// provider's credential.
func (p LLMProvider) APIKeyEnvVar() string {
	switch p {
	case LLMProviderGroq:
		return "GROQ_API_KEY"
	case LLMProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p LLMProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p LLMProvider) Description() string {
	switch p {
	case LLMProviderGroq:
		return "Groq (cloud, fast inference)"
	case LLMProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p EmbeddingProvider) IsLocal() bool {
	return p == EmbeddingProviderOllama
}

// APIKeyEnvVar returns the environment variable consulted for this
// provider's credential. Empty for local providers.
func (p EmbeddingProvider) APIKeyEnvVar() string {
	if p == EmbeddingProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds language-model backend configuration.
type LLMSettings struct {
	// Provider is the LLM backend.
	Provider LLMProvider

	// Model is the model identifier sent to the backend.
	Model string

	// APIKey is the backend credential. Environment variables
	// (GROQ_API_KEY, OPENAI_API_KEY) take precedence at load time.
	APIKey string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens bounds the generated answer length.
	MaxTokens int

	// TimeoutSeconds bounds each batch generation request.
	TimeoutSeconds int
}

// Timeout returns the request timeout as a duration.
func (l LLMSettings) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// IsConfigured returns true if the LLM backend is usable as set.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding backend configuration.
//
// Ingestion-time and query-time vectors must live in the same metric
// space, so the configured model is used for both: changing it after
// documents are ingested invalidates the collection.
type EmbeddingSettings struct {
	// Provider is the embedding backend.
	Provider EmbeddingProvider

	// Model is the embedding model identifier.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the backend credential (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding backend is usable as set.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds text splitting configuration.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is how many trailing characters consecutive chunks may
	// share. Must stay below Size.
	Overlap int
}

// RetrievalSettings holds similarity search configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Path is the directory holding the chunk collection. Empty means
	// the platform data directory, resolved by the settings store.
	Path string
}

// Settings holds all application settings.
type Settings struct {
	// LLM holds language-model backend settings.
	LLM LLMSettings

	// Embedding holds embedding backend settings.
	Embedding EmbeddingSettings

	// Chunking holds text splitting settings.
	Chunking ChunkingSettings

	// Retrieval holds similarity search settings.
	Retrieval RetrievalSettings

	// Storage holds persistence settings.
	Storage StorageSettings
}

// Default settings values.
const (
	DefaultLLMModel       = "llama-3.1-8b-instant"
	DefaultTemperature    = 0.3
	DefaultMaxTokens      = 1024
	DefaultTimeoutSeconds = 10
	DefaultEmbeddingModel = "all-minilm"
	DefaultOllamaBaseURL  = "http://localhost:11434"
	DefaultChunkSize      = 500
	DefaultChunkOverlap   = 50
	DefaultTopK           = 5
)

// DefaultSettings returns settings with working defaults for every
// field except credentials, which must come from the environment or
// the settings file.
func DefaultSettings() Settings {
	return Settings{
		LLM: LLMSettings{
			Provider:       LLMProviderGroq,
			Model:          DefaultLLMModel,
			Temperature:    DefaultTemperature,
			MaxTokens:      DefaultMaxTokens,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderOllama,
			Model:    DefaultEmbeddingModel,
			BaseURL:  DefaultOllamaBaseURL,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Storage: StorageSettings{},
	}
}

// Validate checks the settings against startup requirements. It
// reports every problem found, not just the first, so a user can fix
// the whole file in one pass. A non-nil result wraps ErrInvalidSettings
// and is fatal: no request may be served.
func (s Settings) Validate() error {
	var problems []string

	if !s.LLM.Provider.IsValid() {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported (use one of: %s, %s)",
			s.LLM.Provider, LLMProviderGroq, LLMProviderOpenAI))
	} else if s.LLM.Provider.RequiresAPIKey() && s.LLM.APIKey == "" {
		problems = append(problems, fmt.Sprintf("llm.api_key is required for provider %q (set %s)",
			s.LLM.Provider, s.LLM.Provider.APIKeyEnvVar()))
	}
	if s.LLM.Model == "" {
		problems = append(problems, "llm.model must not be empty")
	}
	if s.LLM.MaxTokens <= 0 {
		problems = append(problems, fmt.Sprintf("llm.max_tokens must be positive, got %d", s.LLM.MaxTokens))
	}
	if s.LLM.TimeoutSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("llm.timeout_seconds must be positive, got %d", s.LLM.TimeoutSeconds))
	}
	if s.LLM.Temperature < 0 || s.LLM.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("llm.temperature must be within [0, 2], got %g", s.LLM.Temperature))
	}

	if !s.Embedding.Provider.IsValid() {
		problems = append(problems, fmt.Sprintf("embedding.provider %q is not supported (use one of: %s, %s)",
			s.Embedding.Provider, EmbeddingProviderOllama, EmbeddingProviderOpenAI))
	} else if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		problems = append(problems, fmt.Sprintf("embedding.api_key is required for provider %q (set %s)",
			s.Embedding.Provider, s.Embedding.Provider.APIKeyEnvVar()))
	}
	if s.Embedding.Model == "" {
		problems = append(problems, "embedding.model must not be empty")
	}
	if s.Embedding.Provider.IsLocal() && s.Embedding.BaseURL == "" {
		problems = append(problems, "embedding.base_url must not be empty for a local provider")
	}

	if s.Chunking.Size <= 0 {
		problems = append(problems, fmt.Sprintf("chunking.size must be positive, got %d", s.Chunking.Size))
	}
	if s.Chunking.Overlap < 0 {
		problems = append(problems, fmt.Sprintf("chunking.overlap must not be negative, got %d", s.Chunking.Overlap))
	}
	if s.Chunking.Size > 0 && s.Chunking.Overlap >= s.Chunking.Size {
		problems = append(problems, fmt.Sprintf("chunking.overlap (%d) must be smaller than chunking.size (%d)",
			s.Chunking.Overlap, s.Chunking.Size))
	}

	if s.Retrieval.TopK <= 0 {
		problems = append(problems, fmt.Sprintf("retrieval.top_k must be positive, got %d", s.Retrieval.TopK))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// AllLLMProviders returns every supported LLM provider.
func AllLLMProviders() []LLMProvider {
	return []LLMProvider{
		LLMProviderGroq,
		LLMProviderOpenAI,
	}
}

// AllEmbeddingProviders returns every supported embedding provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
	}
}

// DefaultLLMModels returns the default model per LLM provider.
func DefaultLLMModels() map[LLMProvider]string {
	return map[LLMProvider]string{
		LLMProviderGroq:   DefaultLLMModel,
		LLMProviderOpenAI: "gpt-4o-mini",
	}
}

// DefaultEmbeddingModels returns the default model per embedding provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderOllama: DefaultEmbeddingModel,
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
