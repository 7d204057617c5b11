// Package tui implements the interactive chat interface built on Bubble
// Tea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// replyMsg carries the result of an Ask call back into the update loop.
type replyMsg struct {
	question string
	answer   string
	err      error
}

// turn is one rendered exchange in the transcript.
type turn struct {
	role    string
	content string
}

// Chat is the Bubble Tea model for an interactive chat session.
type Chat struct {
	chat       driving.ChatService
	ctx        context.Context
	sessionID  string
	collection string

	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	waiting  bool
	ready    bool
}

// NewChat creates a chat model bound to an existing session.
func NewChat(chat driving.ChatService, sessionID, collection string) *Chat {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return &Chat{
		chat:       chat,
		ctx:        context.Background(),
		sessionID:  sessionID,
		collection: collection,
		input:      ti,
		viewport:   viewport.New(0, 0),
		status:     "Connected. Type to chat.",
	}
}

// WithContext sets the context used for chat requests.
func (c *Chat) WithContext(ctx context.Context) {
	if ctx != nil {
		c.ctx = ctx
	}
}

// Init starts the text input cursor blink.
func (c *Chat) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.ready = true
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // title + status + input frame + spacer
		c.viewport.Width = msg.Width
		c.viewport.Height = maxInt(3, msg.Height-reserved-1)
		c.refreshTranscript()
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return c, tea.Quit
		case tea.KeyEnter:
			if c.waiting {
				return c, nil
			}
			question := strings.TrimSpace(c.input.Value())
			if question == "" {
				return c, nil
			}
			c.input.Reset()
			c.turns = append(c.turns, turn{role: "user", content: question})
			c.waiting = true
			c.status = "Thinking..."
			c.refreshTranscript()
			return c, c.ask(question)
		}

	case replyMsg:
		c.waiting = false
		if msg.err != nil {
			c.status = errorStyle.Render("Error: " + msg.err.Error())
			// Drop the unanswered question from the transcript; the
			// service did not persist it either.
			if n := len(c.turns); n > 0 && c.turns[n-1].role == "user" {
				c.turns = c.turns[:n-1]
			}
		} else {
			c.status = "Connected. Type to chat."
			c.turns = append(c.turns, turn{role: "assistant", content: msg.answer})
		}
		c.refreshTranscript()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View renders the transcript, input box and status line.
func (c *Chat) View() string {
	if !c.ready {
		return "Loading..."
	}
	title := titleStyle.Render("Annex Chat")
	if c.collection != "" {
		title += statusStyle.Render("  [" + c.collection + "]")
	}
	return title + "\n" +
		c.viewport.View() + "\n" +
		inputBoxStyle.Render(c.input.View()) + "\n" +
		statusStyle.Render(c.status)
}

// ask sends the question to the chat service off the update loop.
func (c *Chat) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := c.chat.Ask(c.ctx, c.sessionID, question, c.collection)
		return replyMsg{question: question, answer: answer, err: err}
	}
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the bottom.
func (c *Chat) refreshTranscript() {
	if len(c.turns) == 0 {
		c.viewport.SetContent(statusStyle.Render("No messages yet."))
		return
	}

	var b strings.Builder
	for _, t := range c.turns {
		switch t.role {
		case "user":
			fmt.Fprintf(&b, "%s %s\n\n", userStyle.Render("You:"), t.content)
		default:
			fmt.Fprintf(&b, "%s %s\n\n", assistantStyle.Render("Annex:"), t.content)
		}
	}
	c.viewport.SetContent(wrapText(b.String(), c.viewport.Width))
	c.viewport.GotoBottom()
}

// wrapText soft-wraps long lines to the given width.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
