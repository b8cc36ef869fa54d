package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor converts PDF documents to plain text by shelling out to
// pdftotext (poppler-utils).
type Extractor struct {
	runner driven.CommandRunner
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// New creates a new PDF extractor using the system pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// Used in tests to avoid invoking the real binary.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext can be found on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF ingestion. Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract writes the source to a temporary file, runs pdftotext on it and
// returns the text with page breaks normalised to blank lines.
func (e *Extractor) Extract(ctx context.Context, src domain.NamedSource) (string, error) {
	if src == nil {
		return "", fmt.Errorf("%w: nil source", domain.ErrInvalidInput)
	}
	if err := CheckAvailable(); err != nil {
		return "", err
	}

	data, err := src.Bytes()
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrNoExtractableText, src.Name(), err)
	}

	tmp, err := os.CreateTemp("", "grimoire-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file for %s: %w", src.Name(), err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file for %s: %w", src.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file for %s: %w", src.Name(), err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-q", "-enc", "UTF-8", tmpPath, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrNoExtractableText, filepath.Base(src.Name()), err)
	}

	// pdftotext separates pages with form feeds.
	text := strings.ReplaceAll(string(out), "\f", "\n\n")
	text = strings.ToValidUTF8(text, "�")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s produced no text", domain.ErrNoExtractableText, src.Name())
	}
	return text, nil
}
