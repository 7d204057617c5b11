package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/adapters/driving/tui"
)

var (
	chatCollection string
	chatSession    string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your knowledge base",
	Long: `Launch an interactive chat session. Each question is answered by the
configured LLM with relevant context retrieved from the collection.

Controls:
  Enter  - Send message
  Ctrl+C - Quit`,
	RunE: runChat,
}

var chatAskCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question",
	Long: `Send one message in a session and print the reply. Creates a new
session unless --session is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runChatAsk,
}

var chatSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions",
	RunE:  runChatSessions,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show the messages of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatHistory,
}

func init() {
	chatCmd.PersistentFlags().StringVarP(
		&chatCollection, "collection", "c", "", "collection to retrieve context from")
	chatAskCmd.Flags().StringVarP(
		&chatSession, "session", "s", "", "existing session to continue")

	chatCmd.AddCommand(chatAskCmd)
	chatCmd.AddCommand(chatSessionsCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured (set an LLM backend first)")
	}

	// Surface panics with a stack trace instead of a corrupted terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n%s\n", r, debug.Stack())
		}
	}()

	session, err := chatService.NewSession(cmd.Context(), "")
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	model := tui.NewChat(chatService, session.ID, chatCollection)
	model.WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

func runChatAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured (set an LLM backend first)")
	}

	sessionID := chatSession
	if sessionID == "" {
		session, err := chatService.NewSession(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		sessionID = session.ID
	}

	reply, err := chatService.Ask(cmd.Context(), sessionID, args[0], chatCollection)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(reply)
	cmd.Printf("\n(session %s)\n", sessionID)
	return nil
}

func runChatSessions(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured (set an LLM backend first)")
	}

	sessions, err := chatService.Sessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No chat sessions.")
		return nil
	}

	cmd.Println("Sessions:")
	cmd.Println()
	for _, s := range sessions {
		cmd.Printf("  %s  %s  (updated %s)\n",
			s.ID, s.Title, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runChatHistory(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured (set an LLM backend first)")
	}

	messages, err := chatService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("session history: %w", err)
	}

	for _, m := range messages {
		cmd.Printf("[%s] %s\n\n", m.Role, m.Content)
	}
	return nil
}
