package domain

import "time"

// Reserved metadata keys written by the ingest pipeline.
// Callers may attach arbitrary additional keys.
const (
	MetaType       = "type"
	MetaWordCount  = "word_count"
	MetaCharCount  = "char_count"
	MetaCollection = "collection"
)

// Document represents a whole ingested text unit with metadata.
// Content is immutable once stored; updates are modelled as
// delete-then-recreate.
type Document struct {
	// ID is the unique identifier, generated at creation.
	ID string `json:"id"`

	// Content is the full extracted text.
	Content string `json:"content"`

	// Metadata contains arbitrary key-value pairs. A few reserved keys
	// (type, word_count, char_count, collection) are written by the
	// ingest pipeline; everything else is caller-defined.
	Metadata map[string]any `json:"metadata"`

	// ChunkIDs lists the chunks belonging to this document, in the order
	// the chunks appear in the source text.
	ChunkIDs []string `json:"chunk_ids"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"created_at"`
}

// Chunk is a contiguous slice of a document's text, the atomic unit of
// retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links back to the owning Document. The reference is
	// non-owning; it is used for lookup and cascade deletion only.
	DocumentID string `json:"document_id"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`

	// Embedding is the vector representation for semantic search.
	// Chunks without an embedding are skipped by vector search but remain
	// eligible for keyword search.
	Embedding []float32 `json:"embedding,omitempty"`

	// Metadata contains chunk-specific key-value pairs, typically
	// inherited from the document plus chunk-local fields.
	Metadata map[string]any `json:"metadata"`
}

// HasEmbedding reports whether the chunk carries a non-empty embedding.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	count := 0
	inWord := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			inWord = false
		default:
			if !inWord {
				count++
			}
			inWord = true
		}
	}
	return count
}
