package mcp

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) HybridSearch(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Ingest(
	_ context.Context, _ int64, _, _, _ string,
) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ int64) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ int64) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ int64) error {
	return m.err
}

// mockDialogueService is a mock implementation of driving.DialogueService.
type mockDialogueService struct {
	answer   *domain.Message
	messages []domain.Message
	err      error
}

func (m *mockDialogueService) Ask(
	_ context.Context, _ string, _ int64, _ string,
) (*domain.Message, error) {
	return m.answer, m.err
}

func (m *mockDialogueService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return m.messages, m.err
}
