package driven

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// CollectionStore persists the documents and chunks of a single collection.
// A collection is the unit of isolation; each store instance is bound to
// one named collection directory.
type CollectionStore interface {
	// Name returns the collection name.
	Name() string

	// AddDocument stores a document record and increments the document
	// counter. Returns the document ID.
	AddDocument(ctx context.Context, doc *domain.Document) (string, error)

	// AddChunk stores a chunk record and increments the chunk counter.
	// Returns the chunk ID.
	AddChunk(ctx context.Context, chunk *domain.Chunk) (string, error)

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if no record exists.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound if no record exists.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// ListChunks returns every chunk record in the collection. This is a
	// linear scan over all persisted chunks; acceptable for
	// small-to-medium collections.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteDocument removes a document and every chunk whose DocumentID
	// matches, decrementing both counters. Returns false with no side
	// effect when the document does not exist.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// Search ranks all embedded chunks by cosine similarity against the
	// query embedding, descending, truncated to topK. Chunks without an
	// embedding are skipped.
	Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.VectorHit, error)

	// Stats returns the collection metadata plus a live recomputation of
	// the on-disk storage size.
	Stats(ctx context.Context) (domain.CollectionStats, error)
}

// CollectionRegistry persists the collection registry and manages the
// lifecycle of the per-collection stores beneath it.
type CollectionRegistry interface {
	// Load reads the persisted registry state.
	// Returns domain.ErrNotFound when no registry has been written yet.
	Load(ctx context.Context) (*domain.RegistryState, error)

	// Save persists the registry state.
	Save(ctx context.Context, state *domain.RegistryState) error

	// Open returns the store for a collection, creating its backing
	// directory if needed.
	Open(ctx context.Context, name string) (CollectionStore, error)

	// OpenExisting returns the store for a collection whose backing
	// directory must already exist. A registered-but-missing directory is
	// a storage error, not something to silently skip.
	OpenExisting(ctx context.Context, name string) (CollectionStore, error)

	// Remove deletes a collection's backing directory tree.
	Remove(ctx context.Context, name string) error
}
