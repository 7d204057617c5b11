// Package chunker splits document text into overlapping fixed-size
// chunks ahead of embedding and indexing.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters shared between
// consecutive chunks, so sentences cut at a boundary survive in one
// piece on at least one side.
const DefaultOverlap = 200

// Splitter produces overlapping fixed-size chunks from document content.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters. Non-positive sizes
// are ignored.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap in characters. Negative overlaps are
// ignored.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a Splitter. An overlap at or above the chunk size is
// reduced to a quarter of it.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	return s
}

// Split breaks the document content into chunks carrying fresh IDs and
// sequential positions. Empty or whitespace-only content yields no
// chunks.
func (s *Splitter) Split(doc *domain.Document) []domain.Chunk {
	content := doc.Content
	if strings.TrimSpace(content) == "" {
		return nil
	}

	step := s.chunkSize - s.overlap
	chunks := make([]domain.Chunk, 0, len(content)/step+1)

	position := 0
	for start := 0; start < len(content); start += step {
		end := start + s.chunkSize
		if end > len(content) {
			end = len(content)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    content[start:end],
			Position:   position,
			Metadata:   make(map[string]any),
		})
		position++

		if end == len(content) {
			break
		}
	}

	return chunks
}
