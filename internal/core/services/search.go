package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService fuses keyword and vector relevance over a collection.
// The embedder is optional; without one every search runs keyword-only.
type SearchService struct {
	collections driving.CollectionService
	embedder    driven.EmbeddingService
}

// NewSearchService creates a search service. Pass nil embedder to run
// keyword-only.
func NewSearchService(collections driving.CollectionService, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		collections: collections,
		embedder:    embedder,
	}
}

// fusedHit accumulates both score legs for one chunk during fusion.
type fusedHit struct {
	chunk        domain.Chunk
	vectorScore  float64
	keywordScore float64
	order        int // first-seen position, breaks combined-score ties
}

// HybridSearch runs both search legs in parallel, normalises the keyword
// scores into [0,1], and merges by weighted sum. Each leg over-fetches
// 2x the requested topK so a chunk ranked low by one leg but high
// overall still makes the cut.
func (s *SearchService) HybridSearch(ctx context.Context, query, collection string, opts domain.HybridOptions) ([]domain.HybridResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}
	if opts.Normalise() {
		logger.Warn("vector weight out of range, clamped to %.1f", opts.VectorWeight)
	}

	store, err := s.collections.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}

	fetchK := opts.TopK * 2

	var (
		wg          sync.WaitGroup
		vectorHits  []domain.VectorHit
		keywordHits []domain.KeywordHit
		keywordErr  error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		keywordHits, keywordErr = KeywordSearch(ctx, store, query, fetchK)
	}()

	if s.embedder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			embedding, err := s.embedder.Embed(ctx, query)
			if err != nil {
				// Semantic search is best-effort; keyword results still
				// answer the query.
				logger.Warn("query embedding failed, falling back to keyword search: %v", err)
				return
			}
			hits, err := store.Search(ctx, embedding, fetchK)
			if err != nil {
				logger.Warn("vector search failed, falling back to keyword search: %v", err)
				return
			}
			vectorHits = hits
		}()
	}

	wg.Wait()
	if keywordErr != nil {
		return nil, fmt.Errorf("keyword search: %w", keywordErr)
	}

	logger.Debug("hybrid search %q: %d vector hits, %d keyword hits", query, len(vectorHits), len(keywordHits))

	results := fuse(query, vectorHits, keywordHits, opts)
	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

// fuse merges the two hit lists into combined-score order. The raw
// keyword score is normalised by (distinct query tokens + phrase bonus),
// which maps a typical strong match near 1.0; a chunk repeating the
// terms many times may exceed 1.0 and that is deliberate, such a chunk
// should outrank everything.
func fuse(query string, vectorHits []domain.VectorHit, keywordHits []domain.KeywordHit, opts domain.HybridOptions) []domain.HybridResult {
	distinct := make(map[string]struct{})
	for _, token := range Tokenise(query) {
		distinct[token] = struct{}{}
	}
	divisor := float64(len(distinct) + domain.ExactPhraseBonus)

	merged := make(map[string]*fusedHit)
	next := 0
	get := func(chunk domain.Chunk) *fusedHit {
		hit, ok := merged[chunk.ID]
		if !ok {
			hit = &fusedHit{chunk: chunk, order: next}
			next++
			merged[chunk.ID] = hit
		}
		return hit
	}

	for _, vh := range vectorHits {
		get(vh.Chunk).vectorScore = vh.Score
	}
	for _, kh := range keywordHits {
		get(kh.Chunk).keywordScore = kh.Score / divisor
	}

	hits := make([]*fusedHit, 0, len(merged))
	for _, hit := range merged {
		if !matchesFilters(hit.chunk.Metadata, opts.Filters) {
			continue
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		ci := combined(hits[i], opts.VectorWeight)
		cj := combined(hits[j], opts.VectorWeight)
		if ci != cj {
			return ci > cj
		}
		return hits[i].order < hits[j].order
	})

	results := make([]domain.HybridResult, 0, len(hits))
	for _, hit := range hits {
		metadata := make(map[string]any, len(hit.chunk.Metadata)+1)
		for k, v := range hit.chunk.Metadata {
			metadata[k] = v
		}
		metadata["document_id"] = hit.chunk.DocumentID

		results = append(results, domain.HybridResult{
			Content:      hit.chunk.Content,
			Score:        combined(hit, opts.VectorWeight),
			VectorScore:  hit.vectorScore,
			KeywordScore: hit.keywordScore,
			Metadata:     metadata,
		})
	}
	return results
}

func combined(hit *fusedHit, vectorWeight float64) float64 {
	return hit.vectorScore*vectorWeight + hit.keywordScore*(1-vectorWeight)
}

// matchesFilters reports whether metadata satisfies every filter entry
// by exact equality. A nil or empty filter matches everything.
func matchesFilters(metadata map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := metadata[key]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

// Context formats search results as a context block for LLM prompts.
// Returns an empty string when nothing matched.
func (s *SearchService) Context(ctx context.Context, query, collection string, opts domain.HybridOptions) (string, error) {
	results, err := s.HybridSearch(ctx, query, collection, opts)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("RELEVANT CONTEXT:\n\n")
	for i, result := range results {
		fmt.Fprintf(&b, "[Document %d] (Relevance: %.4f)\n%s\n\n", i+1, result.Score, result.Content)
	}
	return b.String(), nil
}
