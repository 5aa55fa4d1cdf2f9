package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driving"
	"github.com/doctalk-labs/doctalk/internal/logger"
)

// Ensure DialogueService implements the interface.
var _ driving.DialogueService = (*DialogueService)(nil)

// Dialogue defaults.
const (
	// dialogueFragmentLimit is how many fragments are retrieved per
	// question.
	dialogueFragmentLimit = 5

	// maxContextLength bounds the context block in characters.
	maxContextLength = 4000

	// historyWindow is how many previous messages are replayed.
	historyWindow = 5

	// conversationTitleLength truncates the first question for use as
	// the conversation title.
	conversationTitleLength = 80
)

const dialogueSystemPrompt = `You are an assistant helping users understand their documents. Answer the question using ONLY the numbered context fragments provided. Cite fragments with their numbers, like [1] or [2]. If the context does not contain enough information, say so clearly.`

// DialogueService answers questions with retrieval-augmented
// generation: it retrieves fragments via hybrid search, prompts the
// generator with numbered context, and records citations.
type DialogueService struct {
	store        driven.ChunkStore
	search       driving.SearchService
	generator    driven.Generator
	systemPrompt string
}

// NewDialogueService creates a new dialogue service.
func NewDialogueService(
	store driven.ChunkStore,
	search driving.SearchService,
	generator driven.Generator,
) *DialogueService {
	return &DialogueService{
		store:        store,
		search:       search,
		generator:    generator,
		systemPrompt: dialogueSystemPrompt,
	}
}

// SetSystemPrompt replaces the built-in system prompt, typically with a
// user-customised one loaded from disk. Empty input is ignored.
func (s *DialogueService) SetSystemPrompt(prompt string) {
	if strings.TrimSpace(prompt) != "" {
		s.systemPrompt = prompt
	}
}

// Ask answers a question over the user's documents. The user turn and
// the cited assistant turn are both persisted to the conversation.
func (s *DialogueService) Ask(
	ctx context.Context, conversationID string, userID int64, question string,
) (*domain.Message, error) {
	if s.generator == nil {
		return nil, domain.ErrGeneratorUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask: empty question: %w", domain.ErrInvalidInput)
	}

	logger.Section("Dialogue")

	conv, err := s.ensureConversation(ctx, conversationID, userID, question)
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		logger.Warn("History load failed for conversation %s: %v", conv.ID, err)
		history = nil
	}

	results, err := s.search.HybridSearch(ctx, question, domain.SearchOptions{
		UserID: userID,
		Limit:  dialogueFragmentLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve fragments: %w", err)
	}
	logger.Debug("Retrieved %d fragments", len(results))

	contextBlock, citations := buildContext(results, maxContextLength)

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.systemPrompt},
	}
	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		messages = append(messages, driven.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("CONTEXT FROM DOCUMENTS:\n%s\n\nQUESTION: %s", contextBlock, question),
	})

	answer, err := s.generator.Chat(ctx, messages, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	now := time.Now()
	userMsg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           domain.RoleUser,
		Content:        question,
		CreatedAt:      now,
	}
	if err := s.store.SaveMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	assistantMsg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		Role:           domain.RoleAssistant,
		Content:        answer,
		Citations:      citations,
		CreatedAt:      now,
	}
	if err := s.store.SaveMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	return assistantMsg, nil
}

// History returns the messages of a conversation in order.
func (s *DialogueService) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.ListMessages(ctx, conversationID)
}

// ensureConversation loads the conversation or starts a new one titled
// by the first question.
func (s *DialogueService) ensureConversation(
	ctx context.Context, conversationID string, userID int64, question string,
) (*domain.Conversation, error) {
	if conversationID != "" {
		conv, err := s.store.GetConversation(ctx, conversationID)
		if err != nil {
			return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
		}
		// Other users' conversations look absent, not forbidden.
		if conv.UserID != userID {
			return nil, domain.ErrNotFound
		}
		return conv, nil
	}

	title := question
	if len(title) > conversationTitleLength {
		title = title[:conversationTitleLength]
	}

	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.store.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	return conv, nil
}

// buildContext numbers the fragments into a context block bounded by
// maxLength and returns the matching citations. At least one fragment
// is always included so the generator has something to ground on.
func buildContext(results []domain.SearchResult, maxLength int) (string, []domain.Citation) {
	var parts []string
	var citations []domain.Citation
	length := 0

	for i, r := range results {
		part := fmt.Sprintf("[%d] %s", i+1, r.Content)
		if length+len(part) > maxLength && i > 0 {
			break
		}
		parts = append(parts, part)
		length += len(part)

		snippet := r.Content
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		citations = append(citations, domain.Citation{
			DocumentID:    r.DocumentID,
			ChunkIndex:    r.ChunkIndex,
			DocumentTitle: r.DocumentTitle,
			Snippet:       snippet,
		})
	}

	if len(parts) == 0 {
		return "(no relevant fragments found)", nil
	}
	return strings.Join(parts, "\n\n"), citations
}
