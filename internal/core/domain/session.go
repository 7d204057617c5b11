package domain

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Session is a persisted chat conversation.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Title is a short human-readable label, usually derived from the
	// first user message.
	Title string

	// CreatedAt is when the session was started.
	CreatedAt time.Time

	// UpdatedAt is when the last message was appended.
	UpdatedAt time.Time
}

// Message is one turn of a chat session.
type Message struct {
	// ID is the unique message identifier.
	ID string

	// SessionID links to the owning session.
	SessionID string

	// Role is one of RoleUser, RoleAssistant or RoleSystem.
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was recorded.
	CreatedAt time.Time
}
