package cli

import (
	"context"
	"errors"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// mockSearchService returns canned results.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) HybridSearch(
	_ context.Context, _ string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) HybridSearch(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return nil, errors.New("index unavailable")
}

// mockDocumentService records calls.
type mockDocumentService struct {
	documents  []domain.Document
	document   *domain.Document
	err        error
	deletedIDs []int64
	ingested   []string
}

func (m *mockDocumentService) Ingest(
	_ context.Context, _ int64, title, _, _ string,
) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, title)
	if m.document != nil {
		return m.document, nil
	}
	return &domain.Document{ID: 1, Title: title, Status: domain.DocumentStatusReady}, nil
}

func (m *mockDocumentService) Get(_ context.Context, _ int64) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.document, nil
}

func (m *mockDocumentService) List(_ context.Context, _ int64) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

// mockDialogueService returns a canned answer.
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

// setupTestServices installs mock services and returns a cleanup func
// restoring the previous ones.
func setupTestServices() func() {
	oldSearch := searchService
	oldDocument := documentService
	oldDialogue := dialogueService

	searchService = &mockSearchService{
		results: []domain.SearchResult{
			{
				DocumentID:    1,
				ChunkIndex:    0,
				Content:       "mock result content",
				HybridScore:   0.9,
				DocumentTitle: "Mock Document",
			},
		},
	}
	documentService = &mockDocumentService{}
	dialogueService = &mockDialogueService{
		answer: &domain.Message{
			ConversationID: "conv-1",
			Role:           domain.RoleAssistant,
			Content:        "mock answer",
		},
	}

	return func() {
		searchService = oldSearch
		documentService = oldDocument
		dialogueService = oldDialogue
	}
}
