package cli

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// --- Mock implementations ---

type mockAnswerService struct {
	results     []domain.RetrievalResult
	answer      domain.Answer
	fragments   []string
	retrieveErr error
	answerErr   error
	streamErr   error
	lastK       int
}

func (m *mockAnswerService) Retrieve(_ context.Context, _ string, k int) ([]domain.RetrievalResult, error) {
	m.lastK = k
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	return m.results, nil
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ []domain.RetrievalResult) (domain.Answer, error) {
	if m.answerErr != nil {
		return domain.Answer{}, m.answerErr
	}
	return m.answer, nil
}

func (m *mockAnswerService) AnswerStream(_ context.Context, _ string, results []domain.RetrievalResult) (domain.AnswerStream, error) {
	if m.streamErr != nil {
		return domain.AnswerStream{}, m.streamErr
	}
	ch := make(chan string, len(m.fragments))
	for _, f := range m.fragments {
		ch <- f
	}
	close(ch)
	return domain.AnswerStream{
		Sources:   domain.CitationsFor(results),
		Model:     m.answer.Model,
		Fragments: ch,
	}, nil
}

type mockIngestService struct {
	errs  map[string]error
	skips map[string]bool
	calls []string
}

func (m *mockIngestService) Ingest(_ context.Context, src domain.NamedSource) (domain.IngestResult, error) {
	name := src.Name()
	m.calls = append(m.calls, name)
	if err := m.errs[name]; err != nil {
		return domain.IngestResult{}, err
	}
	if m.skips[name] {
		return domain.IngestResult{Source: name, Skipped: true}, nil
	}
	return domain.IngestResult{Source: name, ChunksAdded: 3}, nil
}

type mockLibraryService struct {
	docs     []domain.DocumentInfo
	total    int
	docsErr  error
	totalErr error
	clearErr error
	cleared  bool
}

func (m *mockLibraryService) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	if m.docsErr != nil {
		return nil, m.docsErr
	}
	return m.docs, nil
}

func (m *mockLibraryService) TotalChunks(_ context.Context) (int, error) {
	if m.totalErr != nil {
		return 0, m.totalErr
	}
	return m.total, nil
}

func (m *mockLibraryService) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.total = 0
	m.docs = nil
	return nil
}

type mockSettingsService struct {
	settings     domain.Settings
	getErr       error
	saveErr      error
	validateErr  error
	llmPingErr   error
	embedPingErr error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	settings := m.settings
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.LLMProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, baseURL, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.BaseURL = baseURL
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmPingErr }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embedPingErr }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

type mockSettingsStore struct {
	settings domain.Settings
	dataDir  string
}

func (m *mockSettingsStore) Load() (domain.Settings, error) { return m.settings, nil }

func (m *mockSettingsStore) Save(settings domain.Settings) error {
	m.settings = settings
	return nil
}

func (m *mockSettingsStore) Path() string { return "/tmp/grimoire-test/config.toml" }

func (m *mockSettingsStore) DataDir() (string, error) { return m.dataDir, nil }

// --- Test helpers ---

// setupTestServices swaps every package service for a happy-path mock
// and returns a cleanup restoring the previous wiring.
func setupTestServices() func() {
	oldStore := settingsStore
	oldSettingsSvc := settingsService
	oldIngest := ingestService
	oldAnswer := answerService
	oldLibrary := libraryService
	oldLoaded := settings

	configured := domain.DefaultSettings()
	configured.LLM.APIKey = "gsk_test_key_1234567890"

	settingsStore = &mockSettingsStore{settings: configured, dataDir: "/tmp/grimoire-test/data"}
	settingsService = &mockSettingsService{settings: configured}
	ingestService = &mockIngestService{}
	answerService = &mockAnswerService{
		results: []domain.RetrievalResult{
			{ChunkID: "c-1", Text: "Alpha is first.", Source: "alpha.md", ChunkIndex: 0, Similarity: 0.91},
			{ChunkID: "c-2", Text: "Beta follows alpha.", Source: "beta.md", ChunkIndex: 2, Similarity: 0.72},
		},
		answer: domain.Answer{
			Text:  "Alpha comes first.",
			Model: "llama-3.1-8b-instant",
			Sources: []domain.Citation{
				{Source: "alpha.md", ChunkIndex: 0},
				{Source: "beta.md", ChunkIndex: 2},
			},
		},
		fragments: []string{"Alpha ", "comes first."},
	}
	libraryService = &mockLibraryService{
		docs: []domain.DocumentInfo{
			{Source: "alpha.md", ChunkCount: 4},
			{Source: "beta.md", ChunkCount: 7},
		},
		total: 11,
	}

	return func() {
		settingsStore = oldStore
		settingsService = oldSettingsSvc
		ingestService = oldIngest
		answerService = oldAnswer
		libraryService = oldLibrary
		settings = oldLoaded
	}
}
