package domain

import "time"

// MessageRole identifies the author of a conversation message.
type MessageRole string

// Message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation is a dialogue between a user and the corpus.
type Conversation struct {
	// ID is a UUID assigned at creation.
	ID string

	// UserID identifies the owner.
	UserID int64

	// Title is derived from the first question.
	Title string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Citation points an answer at the chunk that supports it.
type Citation struct {
	DocumentID    int64
	ChunkIndex    int
	DocumentTitle string
	Snippet       string
}

// Message is a single turn in a conversation. Assistant messages carry
// the citations of the retrieved fragments used to ground the answer.
type Message struct {
	// ID is a UUID assigned at creation.
	ID string

	// ConversationID links to the parent conversation.
	ConversationID string

	// Role is who authored the message.
	Role MessageRole

	// Content is the message text.
	Content string

	// Citations ground assistant answers in retrieved chunks.
	Citations []Citation

	CreatedAt time.Time
}
