package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// systemPrompt frames the assistant before any retrieved context.
const systemPrompt = "You are Annex, a personal knowledge assistant. " +
	"Answer from the provided context when it is relevant; say so when it is not."

// ChatService conducts retrieval-augmented conversations persisted in a
// session store.
type ChatService struct {
	sessions driven.SessionStore
	llm      driven.LLMService
	searcher driving.SearchService
}

// NewChatService creates a chat service. The LLM is required for Ask;
// session bookkeeping works without one.
func NewChatService(sessions driven.SessionStore, llm driven.LLMService, searcher driving.SearchService) *ChatService {
	return &ChatService{
		sessions: sessions,
		llm:      llm,
		searcher: searcher,
	}
}

// NewSession starts a persisted chat session.
func (s *ChatService) NewSession(ctx context.Context, title string) (*domain.Session, error) {
	if title == "" {
		title = "Untitled session"
	}
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Ask records the user message, retrieves context from the collection,
// and returns the assistant reply.
func (s *ChatService) Ask(ctx context.Context, sessionID, message, collection string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message: %w", domain.ErrInvalidInput)
	}

	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("session %s: %w", sessionID, err)
	}

	history, err := s.sessions.GetMessages(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	contextBlock, err := s.searcher.Context(ctx, message, collection, domain.HybridOptions{
		VectorWeight: domain.DefaultVectorWeight,
	})
	if err != nil {
		// Retrieval problems should not kill the conversation.
		logger.Warn("context retrieval failed: %v", err)
		contextBlock = ""
	}

	messages := make([]driven.ChatMessage, 0, len(history)+3)
	messages = append(messages, driven.ChatMessage{Role: domain.RoleSystem, Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	if contextBlock != "" {
		messages = append(messages, driven.ChatMessage{Role: domain.RoleSystem, Content: contextBlock})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: message})

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}

	now := time.Now().UTC()
	if err := s.sessions.AppendMessage(ctx, &domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   message,
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}
	if err := s.sessions.AppendMessage(ctx, &domain.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("append assistant message: %w", err)
	}

	return reply, nil
}

// History returns the messages of a session in order.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return s.sessions.GetMessages(ctx, sessionID)
}

// Sessions lists stored sessions, most recent first.
func (s *ChatService) Sessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.ListSessions(ctx)
}
