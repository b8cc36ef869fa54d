package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
	"github.com/custodia-labs/grimoire-cli/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	gotName string
	gotArgs []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.gotName = name
	m.gotArgs = args
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("test output")}
	extractor := NewWithRunner(runner)
	require.NotNil(t, extractor)
	assert.Equal(t, runner, extractor.runner)
}

func TestExtensions(t *testing.T) {
	extractor := New()
	exts := extractor.Extensions()

	require.NotEmpty(t, exts)
	assert.Contains(t, exts, ".pdf")
	assert.Len(t, exts, 1)
}

func TestExtract_NilSource(t *testing.T) {
	extractor := New()
	ctx := context.Background()

	text, err := extractor.Extract(ctx, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

// TestExtract_WithMockRunner tests extraction with a mocked pdftotext.
func TestExtract_WithMockRunner(t *testing.T) {
	// Skip if pdftotext not in PATH (LookPath check happens before runner).
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{
		output: []byte("Page one text.\fPage two text.\n"),
	}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	src := domain.NewByteSource("manual.pdf", []byte("%PDF-1.4 fake pdf content"))

	text, err := extractor.Extract(ctx, src)
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", runner.gotName)
	require.True(t, len(runner.gotArgs) >= 4)
	assert.Equal(t, "-q", runner.gotArgs[0])
	assert.Equal(t, "-enc", runner.gotArgs[1])
	assert.Equal(t, "UTF-8", runner.gotArgs[2])
	assert.Equal(t, "-", runner.gotArgs[len(runner.gotArgs)-1])

	// Form feed page break becomes a blank line.
	assert.Contains(t, text, "Page one text.\n\nPage two text.")
	assert.NotContains(t, text, "\f")
}

// TestExtract_RunnerError tests error handling when pdftotext fails.
func TestExtract_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	runner := &mockRunner{
		output: nil,
		err:    errors.New("pdftotext crashed"),
	}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	src := domain.NewByteSource("broken.pdf", []byte("%PDF-1.4 fake pdf content"))

	text, err := extractor.Extract(ctx, src)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Empty(t, text)
}

// TestExtract_EmptyOutput covers scanned PDFs with no text layer.
func TestExtract_EmptyOutput(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping empty output test")
	}

	runner := &mockRunner{output: []byte("\f\f\n")}
	extractor := NewWithRunner(runner)
	ctx := context.Background()

	src := domain.NewByteSource("scanned.pdf", []byte("%PDF-1.4 fake pdf content"))

	text, err := extractor.Extract(ctx, src)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.Empty(t, text)
}

// Integration test - only runs if pdftotext is available.
func TestExtract_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}

	// This test would require a real PDF file.
	// For CI, we rely on the mock tests above.
	t.Skip("integration test requires sample PDF file")
}
