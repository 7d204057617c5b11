package driven

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// SessionStore persists chat sessions and their messages.
type SessionStore interface {
	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session *domain.Session) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if no session exists.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// ListSessions returns all sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its messages.
	DeleteSession(ctx context.Context, id string) error

	// AppendMessage adds a message to a session and touches the session's
	// UpdatedAt.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// GetMessages returns a session's messages in chronological order.
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Close releases resources.
	Close() error
}
