package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

var (
	searchCollection string
	searchTopK       int
	searchWeight     float64
	searchFilters    []string
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a collection",
	Long: `Performs hybrid search over a collection.
Combines keyword (term frequency) and semantic (vector) relevance into
one ranked list. Without an embedding backend the search degrades to
keyword-only.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "collection to search (default collection if empty)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().Float64VarP(&searchWeight, "weight", "w", domain.DefaultVectorWeight, "vector score weight in [0,1]")
	searchCmd.Flags().StringArrayVarP(&searchFilters, "filter", "f", nil, "metadata filter as key=value (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filters, err := parseFilters(searchFilters)
	if err != nil {
		return err
	}

	opts := domain.HybridOptions{
		TopK:         searchTopK,
		VectorWeight: searchWeight,
		Filters:      filters,
	}
	results, err := searchService.HybridSearch(cmd.Context(), args[0], searchCollection, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// parseFilters converts key=value pairs into a metadata filter map.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.HybridResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.HybridResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] score %.4f (vector %.4f, keyword %.4f)\n",
			i+1, results[i].Score, results[i].VectorScore, results[i].KeywordScore)
		if docID, ok := results[i].Metadata["document_id"]; ok {
			cmd.Printf("      Document: %v\n", docID)
		}
		cmd.Printf("      %s\n", snippet(results[i].Content, 160))
		cmd.Println()
	}
	return nil
}

// snippet trims content to a single display line of at most maxLen runes.
func snippet(content string, maxLen int) string {
	line := strings.Join(strings.Fields(content), " ")
	runes := []rune(line)
	if len(runes) <= maxLen {
		return line
	}
	return string(runes[:maxLen]) + "..."
}
