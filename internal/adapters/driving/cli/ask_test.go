package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask <question>", askCmd.Use)
}

func TestAskCmd_Short(t *testing.T) {
	assert.Equal(t, "Ask a question about the loaded documents", askCmd.Short)
}

func TestAskCmd_HasTopKFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestAskCmd_HasStreamFlag(t *testing.T) {
	flag := askCmd.Flags().Lookup("stream")
	require.NotNil(t, flag, "stream flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "which comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Alpha comes first.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] alpha.md, chunk #0 (relevance: 91%)")
	assert.Contains(t, out, "[2] beta.md, chunk #2 (relevance: 72%)")
	assert.Contains(t, out, "Model: llama-3.1-8b-instant")
}

func TestAskCmd_StreamFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--stream", "which comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askStream = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Alpha comes first.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "Model: llama-3.1-8b-instant")
}

func TestAskCmd_PassesTopK(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "-k", "3", "which comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
		askTopK = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	mock := answerService.(*mockAnswerService)
	assert.Equal(t, 3, mock.lastK)
}

func TestAskCmd_LowConfidenceWarning(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := answerService.(*mockAnswerService)
	mock.results = []domain.RetrievalResult{
		{ChunkID: "c-1", Text: "barely related", Source: "alpha.md", ChunkIndex: 0, Similarity: 0.12},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "something obscure"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "weakly related")
	assert.Contains(t, out, "Alpha comes first.")
}

func TestAskCmd_NoWarningWhenConfident(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "which comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "weakly related")
}

func TestAskCmd_EmptyCollection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := answerService.(*mockAnswerService)
	mock.retrieveErr = domain.ErrNoDocumentsLoaded

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDocumentsLoaded)
}

func TestAskCmd_GenerationError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock := answerService.(*mockAnswerService)
	mock.answerErr = errors.New("generation backend failure: 503")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "which comes first?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "generation backend failure")
}
