package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// stubChat replies with a canned answer or error.
type stubChat struct {
	reply string
	err   error
	asked []string
}

func (s *stubChat) NewSession(_ context.Context, title string) (*domain.Session, error) {
	return &domain.Session{ID: "s1", Title: title}, nil
}

func (s *stubChat) Ask(_ context.Context, _, message, _ string) (string, error) {
	s.asked = append(s.asked, message)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubChat) History(_ context.Context, _ string) ([]domain.Message, error) {
	return nil, nil
}

func (s *stubChat) Sessions(_ context.Context) ([]domain.Session, error) {
	return nil, nil
}

func sized(t *testing.T, c *Chat) *Chat {
	t.Helper()
	model, _ := c.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	chat, ok := model.(*Chat)
	require.True(t, ok)
	return chat
}

func send(t *testing.T, c *Chat, question string) tea.Cmd {
	t.Helper()
	c.input.SetValue(question)
	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, &Chat{}, model)
	return cmd
}

func TestChat_ViewBeforeSize(t *testing.T) {
	c := NewChat(&stubChat{}, "s1", "")

	assert.Equal(t, "Loading...", c.View())
}

func TestChat_AskRoundTrip(t *testing.T) {
	service := &stubChat{reply: "The default weight is 0.7."}
	c := sized(t, NewChat(service, "s1", "notes"))

	cmd := send(t, c, "what is the default weight?")
	require.NotNil(t, cmd)
	assert.True(t, c.waiting)

	msg := cmd()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	require.NoError(t, reply.err)

	model, _ := c.Update(reply)
	c = model.(*Chat)

	assert.False(t, c.waiting)
	assert.Equal(t, []string{"what is the default weight?"}, service.asked)
	assert.Contains(t, c.View(), "The default weight is 0.7.")
}

func TestChat_EmptyInputIgnored(t *testing.T) {
	service := &stubChat{}
	c := sized(t, NewChat(service, "s1", ""))

	cmd := send(t, c, "   ")

	assert.Nil(t, cmd)
	assert.Empty(t, service.asked)
}

func TestChat_ErrorDropsUnansweredQuestion(t *testing.T) {
	service := &stubChat{err: errors.New("backend down")}
	c := sized(t, NewChat(service, "s1", ""))

	cmd := send(t, c, "hello?")
	model, _ := c.Update(cmd())
	c = model.(*Chat)

	assert.Empty(t, c.turns)
	assert.Contains(t, c.status, "backend down")
}

func TestChat_IgnoresEnterWhileWaiting(t *testing.T) {
	service := &stubChat{reply: "ok"}
	c := sized(t, NewChat(service, "s1", ""))

	_ = send(t, c, "first")
	cmd := send(t, c, "second")

	assert.Nil(t, cmd)
	assert.Len(t, c.turns, 1)
}

func TestChat_CtrlCQuits(t *testing.T) {
	c := sized(t, NewChat(&stubChat{}, "s1", ""))

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four", 9)
	assert.Equal(t, "one two\nthree\nfour", wrapped)

	assert.Equal(t, "short", wrapText("short", 10))
	assert.Equal(t, "nowidth", wrapText("nowidth", 0))
}
