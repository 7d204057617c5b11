package driving

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// ChatService conducts retrieval-augmented conversations.
type ChatService interface {
	// NewSession starts a persisted chat session.
	NewSession(ctx context.Context, title string) (*domain.Session, error)

	// Ask sends a user message in a session and returns the assistant
	// reply. Relevant context retrieved from the given collection is
	// injected ahead of the question.
	Ask(ctx context.Context, sessionID, message, collection string) (string, error)

	// History returns the messages of a session in order.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Sessions lists stored sessions, most recent first.
	Sessions(ctx context.Context) ([]domain.Session, error)
}
