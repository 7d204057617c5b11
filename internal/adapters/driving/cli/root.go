// Package cli implements the annex command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Injected by SetServices before Execute;
// commands guard against nil so a partially wired binary fails with a
// clear message instead of a panic.
var (
	searchService     driving.SearchService
	collectionService driving.CollectionService
	documentService   driving.DocumentService
	chatService       driving.ChatService
	configStore       driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "annex",
	Short: "Personal knowledge base with hybrid search",
	Long: `Annex stores your documents in local collections and retrieves them
with hybrid keyword and semantic search. Point an LLM at it for
retrieval-augmented chat, or serve it to AI assistants over MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// Services bundles everything the commands need.
type Services struct {
	Search     driving.SearchService
	Collection driving.CollectionService
	Document   driving.DocumentService
	Chat       driving.ChatService
	Config     driven.ConfigStore
}

// SetServices injects the wired services. Call before Execute.
func SetServices(s Services) {
	searchService = s.Search
	collectionService = s.Collection
	documentService = s.Document
	chatService = s.Chat
	configStore = s.Config
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
