package domain

// Hybrid search defaults.
const (
	// DefaultTopK is the default number of results returned by a search.
	DefaultTopK = 5

	// DefaultVectorWeight is the default weight of the vector leg in
	// hybrid score fusion.
	DefaultVectorWeight = 0.7

	// ExactPhraseBonus is added to a chunk's keyword score when the full
	// query appears verbatim in the chunk content.
	ExactPhraseBonus = 3
)

// HybridOptions configures a hybrid search.
type HybridOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// VectorWeight is the weight of the vector score in [0,1]; the
	// keyword score receives the complement (default 0.7). Out-of-range
	// values are clamped.
	VectorWeight float64

	// Filters, when non-empty, keeps only results whose metadata matches
	// every key/value exactly.
	Filters map[string]any
}

// Normalise fills defaults and clamps VectorWeight into [0,1].
// It reports whether clamping was applied.
func (o *HybridOptions) Normalise() bool {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	clamped := false
	if o.VectorWeight < 0 {
		o.VectorWeight = 0
		clamped = true
	} else if o.VectorWeight > 1 {
		o.VectorWeight = 1
		clamped = true
	}
	return clamped
}

// VectorHit is a chunk ranked by cosine similarity against a query
// embedding.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity.
	Score float64
}

// KeywordHit is a chunk ranked by lexical term-frequency score.
type KeywordHit struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the raw (un-normalised) keyword score.
	Score float64
}

// HybridResult is a single fused search result with full provenance:
// both component scores survive alongside the combined score so callers
// can display or debug the ranking.
type HybridResult struct {
	// Content is the matched chunk text.
	Content string `json:"content"`

	// Score is the weighted combination of the component scores.
	Score float64 `json:"score"`

	// VectorScore is the cosine similarity leg (0 when the chunk was
	// found by keyword search only).
	VectorScore float64 `json:"vector_score"`

	// KeywordScore is the normalised lexical leg (0 when the chunk was
	// found by vector search only).
	KeywordScore float64 `json:"keyword_score"`

	// Metadata is the chunk metadata enriched with the owning document id
	// under "document_id".
	Metadata map[string]any `json:"metadata"`
}
