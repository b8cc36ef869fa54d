package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	RetrieveFunc func(
		ctx context.Context, question string, k int,
	) ([]domain.RetrievalResult, error)
	AnswerFunc func(
		ctx context.Context, question string, results []domain.RetrievalResult,
	) (domain.Answer, error)
	AnswerStreamFunc func(
		ctx context.Context, question string, results []domain.RetrievalResult,
	) (domain.AnswerStream, error)
}

func (m *MockAnswerService) Retrieve(
	ctx context.Context, question string, k int,
) ([]domain.RetrievalResult, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, question, k)
	}
	return nil, nil
}

func (m *MockAnswerService) Answer(
	ctx context.Context, question string, results []domain.RetrievalResult,
) (domain.Answer, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, results)
	}
	return domain.Answer{}, nil
}

func (m *MockAnswerService) AnswerStream(
	ctx context.Context, question string, results []domain.RetrievalResult,
) (domain.AnswerStream, error) {
	if m.AnswerStreamFunc != nil {
		return m.AnswerStreamFunc(ctx, question, results)
	}
	fragments := make(chan string)
	close(fragments)
	return domain.AnswerStream{Fragments: fragments}, nil
}

// MockLibraryService implements driving.LibraryService for testing.
type MockLibraryService struct {
	DocumentsFunc   func(ctx context.Context) ([]domain.DocumentInfo, error)
	TotalChunksFunc func(ctx context.Context) (int, error)
	ClearFunc       func(ctx context.Context) error
}

func (m *MockLibraryService) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	if m.DocumentsFunc != nil {
		return m.DocumentsFunc(ctx)
	}
	return nil, nil
}

func (m *MockLibraryService) TotalChunks(ctx context.Context) (int, error) {
	if m.TotalChunksFunc != nil {
		return m.TotalChunksFunc(ctx)
	}
	return 0, nil
}

func (m *MockLibraryService) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

func TestNewPorts(t *testing.T) {
	answer := &MockAnswerService{}
	library := &MockLibraryService{}

	ports := NewPorts(answer, library)

	require.NotNil(t, ports)
	assert.Equal(t, answer, ports.Answer)
	assert.Equal(t, library, ports.Library)
}

func TestPorts_Validate_AllSet(t *testing.T) {
	ports := &Ports{
		Answer:  &MockAnswerService{},
		Library: &MockLibraryService{},
	}

	err := ports.Validate()

	assert.NoError(t, err)
}

func TestPorts_Validate_MissingAnswer(t *testing.T) {
	ports := &Ports{
		Answer:  nil,
		Library: &MockLibraryService{},
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingAnswerService)
}

func TestPorts_Validate_MissingLibrary(t *testing.T) {
	ports := &Ports{
		Answer:  &MockAnswerService{},
		Library: nil,
	}

	err := ports.Validate()

	assert.ErrorIs(t, err, ErrMissingLibraryService)
}
