package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, DefaultOverlap, s.overlap)
}

func TestNew_OverlapCappedBelowChunkSize(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(150))
	assert.Less(t, s.overlap, s.chunkSize)
}

func TestNew_InvalidOptionsIgnored(t *testing.T) {
	s := New(WithChunkSize(0), WithOverlap(-5))
	assert.Equal(t, DefaultChunkSize, s.chunkSize)
	assert.Equal(t, DefaultOverlap, s.overlap)
}

func TestSplit_EmptyContent(t *testing.T) {
	s := New()
	assert.Empty(t, s.Split(&domain.Document{ID: "d", Content: ""}))
	assert.Empty(t, s.Split(&domain.Document{ID: "d", Content: "   \n\t"}))
}

func TestSplit_SmallContentSingleChunk(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{ID: "d", Content: "a short note"}

	chunks := s.Split(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc.Content, chunks[0].Content)
	assert.Equal(t, "d", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Position)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestSplit_OverlappingChunks(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(3))
	doc := &domain.Document{ID: "d", Content: "0123456789ABCDEFGHIJ"}

	chunks := s.Split(doc)

	// step 7: [0,10) [7,17) [14,20)
	require.Len(t, chunks, 3)
	assert.Equal(t, "0123456789", chunks[0].Content)
	assert.Equal(t, "789ABCDEFG", chunks[1].Content)
	assert.Equal(t, "EFGHIJ", chunks[2].Content)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.NotNil(t, chunk.Metadata)
	}
}

func TestSplit_ExactMultipleNoTrailingEmptyChunk(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(0))
	doc := &domain.Document{ID: "d", Content: strings.Repeat("a", 100)}

	chunks := s.Split(doc)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Content, 50)
	assert.Len(t, chunks[1].Content, 50)
}

func TestSplit_UniqueIDs(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(0))
	doc := &domain.Document{ID: "d", Content: strings.Repeat("x", 95)}

	chunks := s.Split(doc)

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		assert.False(t, seen[chunk.ID])
		seen[chunk.ID] = true
	}
}
