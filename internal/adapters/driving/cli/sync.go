package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/connectors/filesystem"
	"github.com/annex-labs/annex-cli/internal/connectors/github"
)

var syncCollection string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ingest documents from external sources",
	Long: `Pull documents into a collection from external sources:
local directories and GitHub repositories.`,
}

var syncDirCmd = &cobra.Command{
	Use:   "dir [path]",
	Short: "Ingest every supported file under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyncDir,
}

var syncWatchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a directory and auto-ingest changed files",
	Long: `Watches a directory tree and ingests supported files as they are
created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runSyncWatch,
}

var syncGithubCmd = &cobra.Command{
	Use:   "github [owner/repo]",
	Short: "Ingest a GitHub repository's files and issues",
	Long: `Indexes the text files of the repository's default branch plus its
issues. Requires a token configured via 'annex auth github'.`,
	Args: cobra.ExactArgs(1),
	RunE: runSyncGithub,
}

func init() {
	syncCmd.PersistentFlags().StringVarP(
		&syncCollection, "collection", "c", "", "collection to ingest into (default collection if empty)")

	syncCmd.AddCommand(syncDirCmd)
	syncCmd.AddCommand(syncWatchCmd)
	syncCmd.AddCommand(syncGithubCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncDir(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	walker := filesystem.NewWalker(documentService)
	count, err := walker.Walk(cmd.Context(), args[0], syncCollection)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Ingested %d files from %s\n", count, args[0])
	return nil
}

func runSyncWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	watcher, err := filesystem.NewWatcher(documentService, syncCollection)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	if err := watcher.Add(args[0]); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)...\n", args[0])
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func runSyncGithub(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if configStore == nil {
		return errors.New("config store not configured")
	}

	owner, repo, found := strings.Cut(args[0], "/")
	if !found || owner == "" || repo == "" {
		return fmt.Errorf("invalid repository %q: expected owner/repo", args[0])
	}

	if configStore.GetString("github.token") == "" {
		return errors.New("no GitHub token configured; run 'annex auth github' first")
	}

	client := github.NewClient(github.NewConfigTokenProvider(configStore))
	ingestor := github.NewIngestor(client, documentService)

	cmd.Printf("Ingesting %s/%s...\n", owner, repo)
	result, err := ingestor.IngestRepo(cmd.Context(), owner, repo, syncCollection)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Ingested %d files and %d issues (%d skipped)\n",
		result.Files, result.Issues, result.Skipped)
	return nil
}
