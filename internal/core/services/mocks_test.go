package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding  []float32
	embedErr   error
	embedCalls int

	// batchSize forces EmbedBatch to return that many vectors
	// regardless of input length, to simulate a misbehaving backend.
	batchSize int
}

func (m *mockEmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	n := len(texts)
	if m.batchSize > 0 {
		n = m.batchSize
	}
	result := make([][]float32, n)
	for i := range result {
		result[i] = m.embedding
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply     string
	chatErr   error
	streamErr error
	deltas    []driven.StreamDelta

	lastMessages []domain.Message
	lastOpts     driven.ChatOptions
	sawDeadline  bool
}

func (m *mockLLMService) Chat(ctx context.Context, messages []domain.Message, opts driven.ChatOptions) (string, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	_, m.sawDeadline = ctx.Deadline()
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ChatStream(_ context.Context, messages []domain.Message, opts driven.ChatOptions) (<-chan driven.StreamDelta, error) {
	m.lastMessages = messages
	m.lastOpts = opts
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	out := make(chan driven.StreamDelta, len(m.deltas))
	for _, d := range m.deltas {
		out <- d
	}
	close(out)
	return out, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	text, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return text, nil
}

func (m *mockPromptStore) Reload() {}

// mockRegistry implements driven.ExtractorRegistry for testing.
type mockRegistry struct {
	text         string
	extractErr   error
	extractCalls int
}

func (m *mockRegistry) Extract(_ context.Context, _ domain.NamedSource) (string, error) {
	m.extractCalls++
	if m.extractErr != nil {
		return "", m.extractErr
	}
	return m.text, nil
}

func (m *mockRegistry) Register(_ driven.Extractor) {}

func (m *mockRegistry) SupportedExtensions() []string {
	return []string{".md", ".txt"}
}

// mockSettingsStore implements driven.SettingsStore in memory.
type mockSettingsStore struct {
	settings domain.Settings
	loadErr  error
	saveErr  error
	saves    int
}

func newMockSettingsStore() *mockSettingsStore {
	return &mockSettingsStore{settings: domain.DefaultSettings()}
}

func (m *mockSettingsStore) Load() (domain.Settings, error) {
	if m.loadErr != nil {
		return domain.Settings{}, m.loadErr
	}
	return m.settings, nil
}

func (m *mockSettingsStore) Save(settings domain.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = settings
	m.saves++
	return nil
}

func (m *mockSettingsStore) Path() string {
	return "/tmp/grimoire-test/config.toml"
}

func (m *mockSettingsStore) DataDir() (string, error) {
	return "/tmp/grimoire-test/data", nil
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	llmErr   error
	embedErr error

	llmConfigs   []domain.LLMSettings
	embedConfigs []domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llmConfigs = append(m.llmConfigs, *config)
	return m.llmErr
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedConfigs = append(m.embedConfigs, *config)
	return m.embedErr
}

// failingIndex wraps a real index and injects failures per method.
type failingIndex struct {
	driven.VectorIndex

	existsErr  error
	upsertErr  error
	queryErr   error
	countErr   error
	sourcesErr error
}

func (f *failingIndex) Exists(ctx context.Context, source string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.VectorIndex.Exists(ctx, source)
}

func (f *failingIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.VectorIndex.Upsert(ctx, chunks)
}

func (f *failingIndex) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.VectorIndex.Query(ctx, vector, k)
}

func (f *failingIndex) TotalCount(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.VectorIndex.TotalCount(ctx)
}

func (f *failingIndex) Sources(ctx context.Context) ([]string, error) {
	if f.sourcesErr != nil {
		return nil, f.sourcesErr
	}
	return f.VectorIndex.Sources(ctx)
}

// --- Test helpers ---

// testPromptStore returns a store with compact stand-in templates.
func testPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptAnswerSystem: "answer from context only",
		driven.PromptAnswerUser:   "Context:\n%s\n\nQuestion: %s",
	}}
}

// seedChunk builds an embedded chunk for index seeding.
func seedChunk(t *testing.T, source string, index, total int, text string, vec []float32) domain.Chunk {
	t.Helper()
	chunk, err := domain.NewChunk(source, text, index, total)
	require.NoError(t, err)
	chunk.Embedding = vec
	return chunk
}
