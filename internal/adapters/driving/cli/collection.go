package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"col"},
	Short:   "Manage collections",
	Long: `Create, list, inspect and delete document collections.
The default collection always exists and cannot be deleted.`,
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	RunE:  runCollectionList,
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a collection and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDelete,
}

var collectionDefaultCmd = &cobra.Command{
	Use:   "set-default [name]",
	Short: "Set the default collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionSetDefault,
}

var collectionStatsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show collection statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollectionStats,
}

func init() {
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionDeleteCmd)
	collectionCmd.AddCommand(collectionDefaultCmd)
	collectionCmd.AddCommand(collectionStatsCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	name := args[0]
	if _, err := collectionService.Create(cmd.Context(), name); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fmt.Errorf("collection %q already exists", name)
		}
		return fmt.Errorf("create collection: %w", err)
	}

	cmd.Printf("Created collection: %s\n", name)
	return nil
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	summaries, err := collectionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	cmd.Println("Collections:")
	cmd.Println()
	for _, s := range summaries {
		marker := " "
		if s.IsDefault {
			marker = "*"
		}
		cmd.Printf("  %s %s (%d documents, %d chunks)\n",
			marker, s.Name, s.DocumentCount, s.ChunkCount)
	}
	return nil
}

func runCollectionDelete(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	name := args[0]
	deleted, err := collectionService.Delete(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrProtectedCollection) {
			return errors.New("the default collection cannot be deleted")
		}
		return fmt.Errorf("delete collection: %w", err)
	}
	if !deleted {
		cmd.Printf("Collection %q does not exist.\n", name)
		return nil
	}

	cmd.Printf("Deleted collection: %s\n", name)
	return nil
}

func runCollectionSetDefault(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	name := args[0]
	changed, err := collectionService.SetDefault(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("set default collection: %w", err)
	}
	if !changed {
		return fmt.Errorf("collection %q does not exist", name)
	}

	cmd.Printf("Default collection is now: %s\n", name)
	return nil
}

func runCollectionStats(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	store, err := collectionService.Resolve(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("resolve collection: %w", err)
	}

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("collection stats: %w", err)
	}

	cmd.Printf("Collection: %s\n", stats.Name)
	cmd.Printf("  Documents: %d\n", stats.DocumentCount)
	cmd.Printf("  Chunks: %d\n", stats.ChunkCount)
	cmd.Printf("  Storage: %d bytes\n", stats.StorageSizeBytes)
	cmd.Printf("  Created: %s\n", stats.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated: %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	return nil
}
