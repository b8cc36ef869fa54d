package ai

import (
	"path/filepath"
	"sync"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// DatabaseFileName is the chunk collection database within the storage
// directory.
const DatabaseFileName = "knowledge_base.db"

// Handles lazily constructs and memoises the backend services for one
// process. Every caller sees the same embedding service, LLM service
// and vector index, so both sides of a similarity comparison share one
// model and SQLite sees a single connection pool.
type Handles struct {
	settings *domain.Settings
	dataDir  string

	embedOnce sync.Once
	embedSvc  driven.EmbeddingService
	embedErr  error

	llmOnce sync.Once
	llmSvc  driven.LLMService
	llmErr  error

	indexOnce sync.Once
	index     driven.VectorIndex
	indexErr  error
}

// NewHandles creates a handle set over the given settings. dataDir is
// the resolved storage directory (settings storage path or the
// platform default).
func NewHandles(settings *domain.Settings, dataDir string) *Handles {
	return &Handles{
		settings: settings,
		dataDir:  dataDir,
	}
}

// Embedding returns the process-wide embedding service, creating and
// ping-validating it on first call.
func (h *Handles) Embedding() (driven.EmbeddingService, error) {
	h.embedOnce.Do(func() {
		h.embedSvc, h.embedErr = CreateAndValidateEmbeddingService(&h.settings.Embedding)
	})
	return h.embedSvc, h.embedErr
}

// LLM returns the process-wide LLM service, creating and
// ping-validating it on first call.
func (h *Handles) LLM() (driven.LLMService, error) {
	h.llmOnce.Do(func() {
		h.llmSvc, h.llmErr = CreateAndValidateLLMService(&h.settings.LLM)
	})
	return h.llmSvc, h.llmErr
}

// Index returns the process-wide vector index, opening the collection
// database on first call.
func (h *Handles) Index() (driven.VectorIndex, error) {
	h.indexOnce.Do(func() {
		h.index, h.indexErr = sqlite.NewVectorIndex(sqlite.Config{
			Path:       filepath.Join(h.dataDir, DatabaseFileName),
			Collection: domain.CollectionName,
		})
	})
	return h.index, h.indexErr
}

// Close releases every service that was actually created.
func (h *Handles) Close() {
	if h.embedSvc != nil {
		h.embedSvc.Close()
	}
	if h.llmSvc != nil {
		h.llmSvc.Close()
	}
	if h.index != nil {
		h.index.Close()
	}
}
