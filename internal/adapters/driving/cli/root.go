// Package cli implements the grimoire command-line interface.
// Commands are package-level cobra vars registered in init(); services
// are wired lazily so commands that never touch a backend never pay
// for (or fail on) its construction.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grimoire-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/grimoire-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grimoire-cli/internal/chunker"
	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grimoire-cli/internal/core/services"
	"github.com/custodia-labs/grimoire-cli/internal/extractors"
	"github.com/custodia-labs/grimoire-cli/internal/extractors/markdown"
	"github.com/custodia-labs/grimoire-cli/internal/extractors/pdf"
	"github.com/custodia-labs/grimoire-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/grimoire-cli/internal/logger"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

var (
	verbose  bool
	cfgPath  string
	settings *domain.Settings

	settingsStore   driven.SettingsStore
	settingsService driving.SettingsService
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	libraryService  driving.LibraryService

	handles *ai.Handles
)

var rootCmd = &cobra.Command{
	Use:   "grimoire",
	Short: "Ask questions about your own documents",
	Long: `Grimoire is a local question-answering tool for your documents.

Ingest PDF, Markdown and plain-text files into a local collection, then
ask questions against it: answers come from a language model grounded
in the most relevant stored passages, with citations back to the
source files.

Example usage:
  grimoire ingest docs/*.md manual.pdf   # Load documents
  grimoire ask "How do I configure TLS?" # One-shot question
  grimoire chat                          # Interactive session
  grimoire docs                          # Show what is loaded`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// A .env in the working directory is a convenience for API
		// keys; absence is not an error.
		_ = godotenv.Load()

		logger.SetVerbose(verbose)

		if settingsStore == nil {
			store, err := file.NewSettingsStore(cfgPath)
			if err != nil {
				return fmt.Errorf("locating settings: %w", err)
			}
			settingsStore = store
		}
		if settingsService == nil {
			settingsService = services.NewSettingsService(settingsStore, ai.NewConfigValidator())
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	defer closeHandles()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose pipeline logging to stderr")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "settings file (default ~/.config/grimoire/config.toml)")
}

// loadSettings reads and fail-fast validates the configuration.
// Nothing may be served on invalid settings.
func loadSettings() (*domain.Settings, error) {
	if settings != nil {
		return settings, nil
	}
	loaded, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("%w\nRun 'grimoire settings' to fix the configuration", err)
	}
	settings = loaded
	return settings, nil
}

// pipelineHandles returns the lazily constructed backend handle set.
func pipelineHandles() (*ai.Handles, error) {
	if handles != nil {
		return handles, nil
	}
	loaded, err := loadSettings()
	if err != nil {
		return nil, err
	}
	dataDir, err := settingsStore.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving storage directory: %w", err)
	}
	logger.Debug("Storage directory: %s", dataDir)
	handles = ai.NewHandles(loaded, dataDir)
	return handles, nil
}

func closeHandles() {
	if handles != nil {
		handles.Close()
	}
}

// ensureLibraryService wires the collection-reporting service. Only the
// index is needed; no AI backend is contacted.
func ensureLibraryService() error {
	if libraryService != nil {
		return nil
	}
	h, err := pipelineHandles()
	if err != nil {
		return err
	}
	index, err := h.Index()
	if err != nil {
		return err
	}
	libraryService = services.NewLibraryService(index)
	return nil
}

// ensureIngestService wires the full ingestion pipeline.
func ensureIngestService() error {
	if ingestService != nil {
		return nil
	}
	h, err := pipelineHandles()
	if err != nil {
		return err
	}
	index, err := h.Index()
	if err != nil {
		return err
	}
	embedder, err := h.Embedding()
	if err != nil {
		return err
	}

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(pdf.New())

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	ingestService = services.NewIngestService(registry, splitter, embedder, index)
	return nil
}

// ensureAnswerService wires retrieval and generation.
func ensureAnswerService() error {
	if answerService != nil {
		return nil
	}
	h, err := pipelineHandles()
	if err != nil {
		return err
	}
	index, err := h.Index()
	if err != nil {
		return err
	}
	embedder, err := h.Embedding()
	if err != nil {
		return err
	}
	llm, err := h.LLM()
	if err != nil {
		return err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("locating prompt directory: %w", err)
	}

	answerService = services.NewAnswerService(index, embedder, llm, services.NewPromptBuilder(prompts), *settings)
	return nil
}
