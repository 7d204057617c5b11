// Package memory provides in-memory storage adapters, used in tests and
// for ephemeral runs.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// Ensure the interfaces are implemented.
var (
	_ driven.CollectionStore    = (*CollectionStore)(nil)
	_ driven.CollectionRegistry = (*Registry)(nil)
)

// CollectionStore is an in-memory implementation of
// driven.CollectionStore.
type CollectionStore struct {
	mu        sync.RWMutex
	name      string
	documents map[string]domain.Document
	chunks    map[string]domain.Chunk
	chunkIDs  []string // insertion order, so scans are deterministic
	meta      domain.CollectionMeta
}

// NewCollectionStore creates an empty in-memory collection.
func NewCollectionStore(name string) *CollectionStore {
	now := time.Now().UTC()
	return &CollectionStore{
		name:      name,
		documents: make(map[string]domain.Document),
		chunks:    make(map[string]domain.Chunk),
		meta: domain.CollectionMeta{
			Name:      name,
			CreatedAt: now,
		},
	}
}

// Name returns the collection name.
func (s *CollectionStore) Name() string {
	return s.name
}

// AddDocument stores a document and increments the document counter.
func (s *CollectionStore) AddDocument(_ context.Context, doc *domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	s.documents[doc.ID] = *doc
	s.meta.DocumentCount++
	s.meta.LastUpdated = time.Now().UTC()
	return doc.ID, nil
}

// AddChunk stores a chunk and increments the chunk counter.
func (s *CollectionStore) AddChunk(_ context.Context, chunk *domain.Chunk) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	s.chunks[chunk.ID] = *chunk
	s.chunkIDs = append(s.chunkIDs, chunk.ID)
	s.meta.ChunkCount++
	s.meta.LastUpdated = time.Now().UTC()
	return chunk.ID, nil
}

// GetDocument retrieves a document by ID.
func (s *CollectionStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetChunk retrieves a chunk by ID.
func (s *CollectionStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// ListChunks returns every chunk in insertion order.
func (s *CollectionStore) ListChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]domain.Chunk, 0, len(s.chunkIDs))
	for _, id := range s.chunkIDs {
		if chunk, ok := s.chunks[id]; ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// DeleteDocument removes a document and cascades to its chunks.
func (s *CollectionStore) DeleteDocument(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return false, nil
	}
	delete(s.documents, id)

	removed := 0
	kept := s.chunkIDs[:0]
	for _, chunkID := range s.chunkIDs {
		if s.chunks[chunkID].DocumentID == id {
			delete(s.chunks, chunkID)
			removed++
			continue
		}
		kept = append(kept, chunkID)
	}
	s.chunkIDs = kept

	s.meta.DocumentCount = max(0, s.meta.DocumentCount-1)
	s.meta.ChunkCount = max(0, s.meta.ChunkCount-removed)
	s.meta.LastUpdated = time.Now().UTC()
	return true, nil
}

// Search ranks embedded chunks by cosine similarity, stable on ties.
func (s *CollectionStore) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.VectorHit, error) {
	chunks, err := s.ListChunks(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]domain.VectorHit, 0, len(chunks))
	for i := range chunks {
		if !chunks[i].HasEmbedding() {
			continue
		}
		hits = append(hits, domain.VectorHit{
			Chunk: chunks[i],
			Score: domain.CosineSimilarity(queryEmbedding, chunks[i].Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Stats approximates storage size by the JSON-encoded size of all records.
func (s *CollectionStore) Stats(_ context.Context) (domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var size int64
	for id := range s.documents {
		doc := s.documents[id]
		if data, err := json.Marshal(&doc); err == nil {
			size += int64(len(data))
		}
	}
	for id := range s.chunks {
		chunk := s.chunks[id]
		if data, err := json.Marshal(&chunk); err == nil {
			size += int64(len(data))
		}
	}

	return domain.CollectionStats{
		CollectionMeta:   s.meta,
		StorageSizeBytes: size,
	}, nil
}

// Registry is an in-memory implementation of driven.CollectionRegistry.
type Registry struct {
	mu     sync.Mutex
	state  *domain.RegistryState
	stores map[string]*CollectionStore
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*CollectionStore),
	}
}

// Load returns the saved state, or domain.ErrNotFound before the first
// Save.
func (r *Registry) Load(_ context.Context) (*domain.RegistryState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return nil, domain.ErrNotFound
	}
	state := *r.state
	state.Collections = append([]string(nil), r.state.Collections...)
	return &state, nil
}

// Save stores a copy of the state.
func (r *Registry) Save(_ context.Context, state *domain.RegistryState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *state
	copied.Collections = append([]string(nil), state.Collections...)
	copied.LastUpdated = time.Now().UTC()
	r.state = &copied
	return nil
}

// Open returns the named store, creating it if needed.
func (r *Registry) Open(_ context.Context, name string) (driven.CollectionStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[name]
	if !ok {
		store = NewCollectionStore(name)
		r.stores[name] = store
	}
	return store, nil
}

// OpenExisting returns the named store, failing when it was never opened.
func (r *Registry) OpenExisting(_ context.Context, name string) (driven.CollectionStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[name]
	if !ok {
		return nil, domain.NewStorageError("open collection", name, domain.ErrNotFound)
	}
	return store, nil
}

// Remove forgets the named store.
func (r *Registry) Remove(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stores, name)
	return nil
}
