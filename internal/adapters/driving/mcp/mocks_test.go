package mcp

import (
	"context"

	"github.com/custodia-labs/grimoire-cli/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	results     []domain.RetrievalResult
	answer      domain.Answer
	stream      domain.AnswerStream
	retrieveErr error
	answerErr   error
}

func (m *mockAnswerService) Retrieve(
	_ context.Context,
	_ string,
	_ int,
) ([]domain.RetrievalResult, error) {
	return m.results, m.retrieveErr
}

func (m *mockAnswerService) Answer(
	_ context.Context,
	_ string,
	_ []domain.RetrievalResult,
) (domain.Answer, error) {
	return m.answer, m.answerErr
}

func (m *mockAnswerService) AnswerStream(
	_ context.Context,
	_ string,
	_ []domain.RetrievalResult,
) (domain.AnswerStream, error) {
	return m.stream, m.answerErr
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result domain.IngestResult
	err    error
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	src domain.NamedSource,
) (domain.IngestResult, error) {
	if m.err != nil {
		return domain.IngestResult{}, m.err
	}
	result := m.result
	if result.Source == "" {
		result.Source = src.Name()
	}
	return result, nil
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	docs  []domain.DocumentInfo
	total int
	err   error
}

func (m *mockLibraryService) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	return m.docs, m.err
}

func (m *mockLibraryService) TotalChunks(_ context.Context) (int, error) {
	return m.total, m.err
}

func (m *mockLibraryService) Clear(_ context.Context) error {
	return m.err
}
