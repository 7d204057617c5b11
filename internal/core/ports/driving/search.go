package driving

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// SearchService fuses lexical and semantic relevance into one ranked list.
type SearchService interface {
	// HybridSearch searches the named collection (default collection when
	// collection is empty) and returns fused results with full score
	// provenance. When the vector leg is unavailable or fails, keyword
	// results alone are returned rather than failing outright.
	HybridSearch(ctx context.Context, query, collection string, opts domain.HybridOptions) ([]domain.HybridResult, error)

	// Context formats hybrid search results into a text block suitable
	// for injection into an LLM prompt.
	Context(ctx context.Context, query, collection string, opts domain.HybridOptions) (string, error)
}
