package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/adapters/driven/storage/memory"
	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// stubEmbedder maps known texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int    { return 3 }
func (e *stubEmbedder) ModelName() string { return "stub" }
func (e *stubEmbedder) Close() error      { return nil }

func newSearchFixture(t *testing.T) (*CollectionService, *memory.CollectionStore) {
	t.Helper()
	collections, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	store, err := collections.Default(context.Background())
	require.NoError(t, err)
	return collections, store.(*memory.CollectionStore)
}

func TestHybridSearch_KeywordOnlyWithoutEmbedder(t *testing.T) {
	collections, store := newSearchFixture(t)
	addChunks(t, store, "deploy notes for the api server", "grocery list")

	svc := NewSearchService(collections, nil)
	results, err := svc.HybridSearch(context.Background(), "api server", "", domain.HybridOptions{VectorWeight: 0.7})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "deploy notes for the api server", results[0].Content)
	assert.Zero(t, results[0].VectorScore)
	assert.Greater(t, results[0].KeywordScore, 0.0)
}

func TestHybridSearch_FusesBothLegs(t *testing.T) {
	collections, store := newSearchFixture(t)
	ctx := context.Background()

	// "semantic" matches the query embedding exactly but shares no words;
	// "lexical" contains the query verbatim but points the other way.
	_, err := store.AddChunk(ctx, &domain.Chunk{ID: "semantic", DocumentID: "d1",
		Content: "vectors nearest neighbours", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)
	_, err = store.AddChunk(ctx, &domain.Chunk{ID: "lexical", DocumentID: "d2",
		Content: "meeting notes from tuesday", Embedding: []float32{0, 1, 0}})
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"meeting notes": {1, 0, 0},
	}}
	svc := NewSearchService(collections, embedder)

	results, err := svc.HybridSearch(ctx, "meeting notes", "", domain.HybridOptions{VectorWeight: 0.7})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// vector leg: semantic=1.0, lexical=0.0
	// keyword leg: lexical=(2+3)/(2+3)=1.0, semantic=0
	// combined: semantic=0.7, lexical=0.3
	assert.Equal(t, "vectors nearest neighbours", results[0].Content)
	assert.InDelta(t, 0.7, results[0].Score, 1e-9)
	assert.Equal(t, "meeting notes from tuesday", results[1].Content)
	assert.InDelta(t, 0.3, results[1].Score, 1e-9)
}

func TestHybridSearch_ChunkFoundByBothLegsBeatsEither(t *testing.T) {
	collections, store := newSearchFixture(t)
	ctx := context.Background()

	_, err := store.AddChunk(ctx, &domain.Chunk{ID: "both", DocumentID: "d",
		Content: "meeting notes", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)
	_, err = store.AddChunk(ctx, &domain.Chunk{ID: "vector-only", DocumentID: "d",
		Content: "quarterly summary", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"meeting notes": {1, 0, 0},
	}}
	svc := NewSearchService(collections, embedder)

	results, err := svc.HybridSearch(ctx, "meeting notes", "", domain.HybridOptions{VectorWeight: 0.7})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "meeting notes", results[0].Content)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestHybridSearch_EmbedderFailureDegradesToKeyword(t *testing.T) {
	collections, store := newSearchFixture(t)
	addChunks(t, store, "backup strategy for postgres")

	svc := NewSearchService(collections, &stubEmbedder{err: errors.New("model offline")})
	results, err := svc.HybridSearch(context.Background(), "postgres backup", "", domain.HybridOptions{VectorWeight: 0.7})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Zero(t, results[0].VectorScore)
}

func TestHybridSearch_ClampsWeight(t *testing.T) {
	collections, store := newSearchFixture(t)
	addChunks(t, store, "alpha beta")

	svc := NewSearchService(collections, nil)
	results, err := svc.HybridSearch(context.Background(), "alpha", "", domain.HybridOptions{VectorWeight: 5})
	require.NoError(t, err)

	// Weight clamped to 1.0 leaves keyword-only hits with combined score 0
	// but they are still returned.
	require.Len(t, results, 1)
	assert.Zero(t, results[0].Score)
}

func TestHybridSearch_MetadataFilters(t *testing.T) {
	collections, store := newSearchFixture(t)
	ctx := context.Background()

	_, err := store.AddChunk(ctx, &domain.Chunk{DocumentID: "d1", Content: "release checklist",
		Metadata: map[string]any{"source": "github"}})
	require.NoError(t, err)
	_, err = store.AddChunk(ctx, &domain.Chunk{DocumentID: "d2", Content: "release party",
		Metadata: map[string]any{"source": "calendar"}})
	require.NoError(t, err)

	svc := NewSearchService(collections, nil)
	results, err := svc.HybridSearch(ctx, "release", "", domain.HybridOptions{
		VectorWeight: 0.7,
		Filters:      map[string]any{"source": "github"},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "release checklist", results[0].Content)
}

func TestHybridSearch_EmptyQuery(t *testing.T) {
	collections, _ := newSearchFixture(t)
	svc := NewSearchService(collections, nil)

	_, err := svc.HybridSearch(context.Background(), "   ", "", domain.HybridOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHybridSearch_UnknownCollection(t *testing.T) {
	collections, _ := newSearchFixture(t)
	svc := NewSearchService(collections, nil)

	_, err := svc.HybridSearch(context.Background(), "anything", "nope", domain.HybridOptions{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHybridSearch_TopKTruncation(t *testing.T) {
	collections, store := newSearchFixture(t)
	addChunks(t, store, "dog one", "dog two", "dog three", "dog four")

	svc := NewSearchService(collections, nil)
	results, err := svc.HybridSearch(context.Background(), "dog", "", domain.HybridOptions{TopK: 2})
	require.NoError(t, err)

	assert.Len(t, results, 2)
}

func TestContext_FormatsResults(t *testing.T) {
	collections, store := newSearchFixture(t)
	addChunks(t, store, "the answer is 42")

	svc := NewSearchService(collections, nil)
	block, err := svc.Context(context.Background(), "answer", "", domain.HybridOptions{})
	require.NoError(t, err)

	assert.Contains(t, block, "RELEVANT CONTEXT:")
	assert.Contains(t, block, "[Document 1]")
	assert.Contains(t, block, "the answer is 42")
}

func TestContext_EmptyWhenNoMatches(t *testing.T) {
	collections, _ := newSearchFixture(t)
	svc := NewSearchService(collections, nil)

	block, err := svc.Context(context.Background(), "anything", "", domain.HybridOptions{})
	require.NoError(t, err)

	assert.Empty(t, block)
}
