package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryState_Has(t *testing.T) {
	state := RegistryState{Collections: []string{"default", "work"}}

	assert.True(t, state.Has("default"))
	assert.True(t, state.Has("work"))
	assert.False(t, state.Has("missing"))
}

func TestRegistryState_Remove(t *testing.T) {
	state := RegistryState{Collections: []string{"default", "a", "b"}}

	assert.True(t, state.Remove("a"))
	assert.Equal(t, []string{"default", "b"}, state.Collections)

	assert.False(t, state.Remove("a"))
	assert.Equal(t, []string{"default", "b"}, state.Collections)
}

func TestHybridOptions_NormaliseDefaults(t *testing.T) {
	opts := HybridOptions{}
	clamped := opts.Normalise()

	assert.False(t, clamped)
	assert.Equal(t, DefaultTopK, opts.TopK)
	assert.Equal(t, 0.0, opts.VectorWeight)
}

func TestHybridOptions_NormaliseClampsWeight(t *testing.T) {
	opts := HybridOptions{TopK: 3, VectorWeight: 1.5}
	assert.True(t, opts.Normalise())
	assert.Equal(t, 1.0, opts.VectorWeight)

	opts = HybridOptions{TopK: 3, VectorWeight: -0.2}
	assert.True(t, opts.Normalise())
	assert.Equal(t, 0.0, opts.VectorWeight)
}

func TestChunk_HasEmbedding(t *testing.T) {
	chunk := Chunk{}
	assert.False(t, chunk.HasEmbedding())

	chunk.Embedding = []float32{0.1}
	assert.True(t, chunk.HasEmbedding())
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 1, WordCount("hello"))
	assert.Equal(t, 4, WordCount("the quick brown fox"))
	assert.Equal(t, 2, WordCount("  spaced \n out \t"))
}
