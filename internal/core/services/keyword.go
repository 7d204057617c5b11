package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// tokenPattern splits queries into word tokens. Matching is
// case-insensitive; everything is lowercased before comparison.
var tokenPattern = regexp.MustCompile(`\w+`)

// Tokenise lowercases text and splits it into word tokens.
func Tokenise(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// KeywordSearch scores every chunk in the store against the query by
// substring term frequency. Each occurrence of each query token counts
// once; a verbatim occurrence of the whole query adds
// domain.ExactPhraseBonus on top, so exact phrases outrank the same
// words scattered. Chunks scoring zero are excluded. Results are sorted
// by score descending (stable, so storage order breaks ties) and
// truncated to limit.
func KeywordSearch(ctx context.Context, store driven.CollectionStore, query string, limit int) ([]domain.KeywordHit, error) {
	tokens := Tokenise(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	phrase := strings.ToLower(strings.TrimSpace(query))

	chunks, err := store.ListChunks(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.KeywordHit, 0, len(chunks))
	for i := range chunks {
		content := strings.ToLower(chunks[i].Content)

		score := 0
		for _, token := range tokens {
			score += strings.Count(content, token)
		}
		if phrase != "" && strings.Contains(content, phrase) {
			score += domain.ExactPhraseBonus
		}
		if score == 0 {
			continue
		}

		hits = append(hits, domain.KeywordHit{
			Chunk: chunks[i],
			Score: float64(score),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
