package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

const (
	// EnvConfigPath overrides the settings file location.
	EnvConfigPath = "GRIMOIRE_CONFIG"

	appDirName     = "grimoire"
	configFileName = "config.toml"
)

// SettingsStore is a TOML-backed implementation of driven.SettingsStore.
// The store is stateless between calls; Load always reflects the file
// currently on disk plus environment overrides.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a settings store at the given file path.
// An empty path resolves to $GRIMOIRE_CONFIG, then to the platform
// config directory.
func NewSettingsStore(path string) (*SettingsStore, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		path = filepath.Join(configDir, appDirName, configFileName)
	}

	return &SettingsStore{filePath: path}, nil
}

// Load reads settings from disk. A missing file yields the defaults.
// After loading, provider API keys are overridden from the environment
// when the matching variable is set.
func (s *SettingsStore) Load() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// First run: defaults plus whatever the environment provides.
	case err != nil:
		return domain.Settings{}, fmt.Errorf("reading settings file: %w", err)
	default:
		// Decoding over the defaults means absent keys keep their
		// default values while present keys win, zero or not.
		dto := settingsToFile(settings)
		if err := toml.Unmarshal(data, &dto); err != nil {
			return domain.Settings{}, fmt.Errorf("parsing settings file: %w", err)
		}
		settings = dto.toDomain()
	}

	applyEnvOverrides(&settings)
	return settings, nil
}

// Save atomically persists the settings with restricted permissions.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(settingsToFile(settings))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	// Write-then-rename so a crash never leaves a torn config file.
	tmp, err := os.CreateTemp(dir, configFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("restricting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// DataDir returns the directory holding persisted collections: the
// configured storage path when set, otherwise the platform data
// directory.
func (s *SettingsStore) DataDir() (string, error) {
	settings, err := s.Load()
	if err != nil {
		return "", err
	}
	if settings.Storage.Path != "" {
		return settings.Storage.Path, nil
	}
	return defaultDataDir()
}

// defaultDataDir resolves the XDG data directory for grimoire.
func defaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// applyEnvOverrides replaces stored API keys with environment values
// for the providers that take one. Only the variable matching the
// configured provider is consulted.
func applyEnvOverrides(settings *domain.Settings) {
	if env := settings.LLM.Provider.APIKeyEnvVar(); env != "" {
		if key := os.Getenv(env); key != "" {
			settings.LLM.APIKey = key
		}
	}
	if env := settings.Embedding.Provider.APIKeyEnvVar(); env != "" {
		if key := os.Getenv(env); key != "" {
			settings.Embedding.APIKey = key
		}
	}
}

// settingsFile is the on-disk TOML shape. The domain types stay free
// of serialisation tags; mapping happens here.
type settingsFile struct {
	LLM       llmSection       `toml:"llm"`
	Embedding embeddingSection `toml:"embedding"`
	Chunking  chunkingSection  `toml:"chunking"`
	Retrieval retrievalSection `toml:"retrieval"`
	Storage   storageSection   `toml:"storage"`
}

type llmSection struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	APIKey         string  `toml:"api_key,omitempty"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type embeddingSection struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

type chunkingSection struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

type retrievalSection struct {
	TopK int `toml:"top_k"`
}

type storageSection struct {
	Path string `toml:"path,omitempty"`
}

// settingsToFile maps domain settings onto the TOML document shape.
func settingsToFile(settings domain.Settings) settingsFile {
	return settingsFile{
		LLM: llmSection{
			Provider:       string(settings.LLM.Provider),
			Model:          settings.LLM.Model,
			APIKey:         settings.LLM.APIKey,
			Temperature:    settings.LLM.Temperature,
			MaxTokens:      settings.LLM.MaxTokens,
			TimeoutSeconds: settings.LLM.TimeoutSeconds,
		},
		Embedding: embeddingSection{
			Provider: string(settings.Embedding.Provider),
			Model:    settings.Embedding.Model,
			BaseURL:  settings.Embedding.BaseURL,
			APIKey:   settings.Embedding.APIKey,
		},
		Chunking: chunkingSection{
			Size:    settings.Chunking.Size,
			Overlap: settings.Chunking.Overlap,
		},
		Retrieval: retrievalSection{
			TopK: settings.Retrieval.TopK,
		},
		Storage: storageSection{
			Path: settings.Storage.Path,
		},
	}
}

// toDomain maps the TOML document shape back to domain settings.
func (f settingsFile) toDomain() domain.Settings {
	return domain.Settings{
		LLM: domain.LLMSettings{
			Provider:       domain.LLMProvider(f.LLM.Provider),
			Model:          f.LLM.Model,
			APIKey:         f.LLM.APIKey,
			Temperature:    f.LLM.Temperature,
			MaxTokens:      f.LLM.MaxTokens,
			TimeoutSeconds: f.LLM.TimeoutSeconds,
		},
		Embedding: domain.EmbeddingSettings{
			Provider: domain.EmbeddingProvider(f.Embedding.Provider),
			Model:    f.Embedding.Model,
			BaseURL:  f.Embedding.BaseURL,
			APIKey:   f.Embedding.APIKey,
		},
		Chunking: domain.ChunkingSettings{
			Size:    f.Chunking.Size,
			Overlap: f.Chunking.Overlap,
		},
		Retrieval: domain.RetrievalSettings{
			TopK: f.Retrieval.TopK,
		},
		Storage: domain.StorageSettings{
			Path: f.Storage.Path,
		},
	}
}
