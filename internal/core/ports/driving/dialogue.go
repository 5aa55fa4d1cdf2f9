package driving

import (
	"context"

	"github.com/doctalk-labs/doctalk/internal/core/domain"
)

// DialogueService answers questions over the corpus using
// retrieval-augmented generation.
type DialogueService interface {
	// Ask retrieves relevant fragments for the question, generates an
	// answer grounded in them with citations, and appends both turns to
	// the conversation. An empty conversationID starts a new
	// conversation.
	Ask(ctx context.Context, conversationID string, userID int64, question string) (*domain.Message, error)

	// History returns the messages of a conversation in order.
	History(ctx context.Context, conversationID string) ([]domain.Message, error)
}
