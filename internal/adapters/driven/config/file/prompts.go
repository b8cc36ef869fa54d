package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults.
//
// The store uses lazy initialisation - files are only created when
// first accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default prompts. They seed the
// user override files on first use and serve as the fallback when a
// file cannot be read.
//
// The system prompt's refusal phrase and citation format are load-
// bearing: the answer pipeline promises them to users, so custom
// prompts should keep rules 2 and 3 intact.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are a helpful AI Knowledge Assistant. Answer the user's question based ONLY on the provided context from uploaded documents.

Rules:
1. Only use information from the provided context to answer.
2. If the context does not contain enough information to answer, say: "I don't have enough information in the uploaded documents to answer this question."
3. Always cite your sources by referencing the document name and chunk number in your answer (e.g., [Source: document.pdf, Chunk #3]).
4. Be concise and accurate.
5. Format your answer clearly with proper structure.`,

	driven.PromptAnswerUser: `Context from uploaded documents:

---

%s

---

Question: %s

Please answer based on the context above and cite your sources.`,
}

// NewPromptStore creates a new file-based prompt store. If promptDir
// is empty, prompts live next to the config file in the platform
// config directory.
//
// The constructor performs no I/O - directory creation and file
// writes happen lazily on first Load call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		promptDir = filepath.Join(configDir, appDirName, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Returns the cached value if available, otherwise loads from
// file, falling back to the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load's value is not overwritten.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Seed default prompt files, leaving existing customisations alone.
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Grimoire Prompts

This directory contains the customisable prompts behind grimoire's
answer generation.

## Files

- ` + "`answer_system.txt`" + ` - System rules for grounded answering
- ` + "`answer_user.txt`" + ` - Wraps retrieved context and the question

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the
next command.

The system prompt's refusal phrase and [Source: ..., Chunk #N] citation
format are relied upon by the rest of the pipeline; keep those rules in
place when customising.

## Format Placeholders

` + "`answer_user.txt`" + ` uses Go fmt placeholders:
- first ` + "`%s`" + ` - the formatted context blocks
- second ` + "`%s`" + ` - the user's question

Ensure customised prompts maintain placeholders in the correct order.
`
	return os.WriteFile(path, []byte(content), 0600)
}
