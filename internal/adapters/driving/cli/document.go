package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

var (
	docCollection string
	docMetadata   []string
)

var docCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage documents",
	Long:    `Add, inspect and remove documents within a collection.`,
}

var docAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add raw text as a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocAdd,
}

var docAddFileCmd = &cobra.Command{
	Use:   "add-file [path]",
	Short: "Add a file as a document",
	Long: `Extracts text from the file (markdown, HTML and CSV are converted
to plain text) and indexes it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocAddFile,
}

var docGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocGet,
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

func init() {
	docCmd.PersistentFlags().StringVarP(
		&docCollection, "collection", "c", "", "collection to operate on (default collection if empty)")
	docAddCmd.Flags().StringArrayVarP(
		&docMetadata, "metadata", "m", nil, "document metadata as key=value (repeatable)")

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docAddFileCmd)
	docCmd.AddCommand(docGetCmd)
	docCmd.AddCommand(docDeleteCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	metadata, err := parseFilters(docMetadata)
	if err != nil {
		return err
	}

	doc, err := documentService.AddText(cmd.Context(), args[0], metadata, docCollection)
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	cmd.Printf("Added document: %s (%d chunks)\n", doc.ID, len(doc.ChunkIDs))
	return nil
}

func runDocAddFile(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.AddFile(cmd.Context(), args[0], docCollection)
	if err != nil {
		return fmt.Errorf("add file: %w", err)
	}

	cmd.Printf("Added document: %s (%d chunks)\n", doc.ID, len(doc.ChunkIDs))
	return nil
}

func runDocGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0], docCollection)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q not found", args[0])
		}
		return fmt.Errorf("get document: %w", err)
	}

	cmd.Printf("Document: %s\n", doc.ID)
	cmd.Printf("  Chunks: %d\n", len(doc.ChunkIDs))
	for key, value := range doc.Metadata {
		cmd.Printf("  %s: %v\n", key, value)
	}
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	deleted, err := documentService.Delete(cmd.Context(), args[0], docCollection)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if !deleted {
		cmd.Printf("Document %q does not exist.\n", args[0])
		return nil
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}
