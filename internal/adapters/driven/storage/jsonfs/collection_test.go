package jsonfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := OpenCollection(t.TempDir(), "test")
	require.NoError(t, err)
	return c
}

func TestAddDocument_RoundTrip(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	doc := &domain.Document{
		Content:  "the quick brown fox",
		Metadata: map[string]any{"author": "aesop"},
	}

	id, err := c.AddDocument(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := c.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox", got.Content)
	assert.Equal(t, "aesop", got.Metadata["author"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetDocument_NotFound(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetChunk_NotFound(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.GetChunk(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddChunk_IncrementsCounter(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddChunk(ctx, &domain.Chunk{DocumentID: "d1", Content: "part one"})
	require.NoError(t, err)
	_, err = c.AddChunk(ctx, &domain.Chunk{DocumentID: "d1", Content: "part two"})
	require.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ChunkCount)
	assert.Equal(t, 0, stats.DocumentCount)
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestDeleteDocument_Missing(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddDocument(ctx, &domain.Document{ID: "keep", Content: "stay"})
	require.NoError(t, err)

	deleted, err := c.DeleteDocument(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	// No side effect on counters.
	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 0, stats.ChunkCount)
}

func TestDeleteDocument_CascadesChunks(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	docID, err := c.AddDocument(ctx, &domain.Document{Content: "doomed"})
	require.NoError(t, err)

	var chunkIDs []string
	for i := 0; i < 3; i++ {
		id, err := c.AddChunk(ctx, &domain.Chunk{DocumentID: docID, Content: "piece", Position: i})
		require.NoError(t, err)
		chunkIDs = append(chunkIDs, id)
	}
	// A chunk of another document must survive.
	otherID, err := c.AddChunk(ctx, &domain.Chunk{DocumentID: "other", Content: "survivor"})
	require.NoError(t, err)

	deleted, err := c.DeleteDocument(ctx, docID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = c.GetDocument(ctx, docID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range chunkIDs {
		_, err = c.GetChunk(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err = c.GetChunk(ctx, otherID)
	assert.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DocumentCount)
	assert.Equal(t, 1, stats.ChunkCount)
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddChunk(ctx, &domain.Chunk{ID: "a", DocumentID: "d", Content: "a", Embedding: []float32{1, 0}})
	require.NoError(t, err)
	_, err = c.AddChunk(ctx, &domain.Chunk{ID: "b", DocumentID: "d", Content: "b", Embedding: []float32{0, 1}})
	require.NoError(t, err)
	_, err = c.AddChunk(ctx, &domain.Chunk{ID: "c", DocumentID: "d", Content: "c", Embedding: []float32{1, 1}})
	require.NoError(t, err)

	hits, err := c.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "c", hits[1].Chunk.ID)
	assert.Equal(t, "b", hits[2].Chunk.ID)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-9)
}

func TestSearch_SkipsChunksWithoutEmbedding(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddChunk(ctx, &domain.Chunk{ID: "plain", DocumentID: "d", Content: "no vector"})
	require.NoError(t, err)
	_, err = c.AddChunk(ctx, &domain.Chunk{ID: "vec", DocumentID: "d", Content: "vector", Embedding: []float32{1}})
	require.NoError(t, err)

	hits, err := c.Search(ctx, []float32{1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "vec", hits[0].Chunk.ID)
}

func TestSearch_TruncatesToTopK(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.AddChunk(ctx, &domain.Chunk{DocumentID: "d", Content: "x", Embedding: []float32{1, float32(i)}})
		require.NoError(t, err)
	}

	hits, err := c.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_ZeroQueryVector(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddChunk(ctx, &domain.Chunk{DocumentID: "d", Content: "x", Embedding: []float32{3, 4}})
	require.NoError(t, err)

	hits, err := c.Search(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0.0, hits[0].Score)
}

func TestStats_RecomputesStorageSize(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	before, err := c.Stats(ctx)
	require.NoError(t, err)

	_, err = c.AddDocument(ctx, &domain.Document{Content: "some content that takes space"})
	require.NoError(t, err)

	after, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Greater(t, after.StorageSizeBytes, before.StorageSizeBytes)
}

func TestOpenCollection_ReloadsPersistedMetadata(t *testing.T) {
	base := t.TempDir()
	ctx := context.Background()

	c1, err := OpenCollection(base, "persist")
	require.NoError(t, err)
	_, err = c1.AddDocument(ctx, &domain.Document{Content: "hello"})
	require.NoError(t, err)
	_, err = c1.AddChunk(ctx, &domain.Chunk{DocumentID: "x", Content: "hello"})
	require.NoError(t, err)

	c2, err := OpenCollection(base, "persist")
	require.NoError(t, err)
	stats, err := c2.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 1, stats.ChunkCount)
}

func TestOpenCollection_ReconcilesLostMetadata(t *testing.T) {
	base := t.TempDir()
	ctx := context.Background()

	c1, err := OpenCollection(base, "recover")
	require.NoError(t, err)
	_, err = c1.AddDocument(ctx, &domain.Document{Content: "hello"})
	require.NoError(t, err)
	_, err = c1.AddChunk(ctx, &domain.Chunk{DocumentID: "x", Content: "hello"})
	require.NoError(t, err)
	_, err = c1.AddChunk(ctx, &domain.Chunk{DocumentID: "x", Content: "world"})
	require.NoError(t, err)

	// Simulate a lost metadata record.
	require.NoError(t, os.Remove(filepath.Join(base, "recover", "metadata.json")))

	c2, err := OpenCollection(base, "recover")
	require.NoError(t, err)
	stats, err := c2.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DocumentCount)
	assert.Equal(t, 2, stats.ChunkCount)
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	c := newTestCollection(t)
	ctx := context.Background()

	_, err := c.AddDocument(ctx, &domain.Document{Content: "tidy"})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(c.Dir(), "documents"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}
