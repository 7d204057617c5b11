package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
	"github.com/annex-labs/annex-cli/internal/normalisers"
	"github.com/annex-labs/annex-cli/internal/postprocessors/chunker"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService runs the ingest pipeline: normalise, enrich metadata,
// chunk, embed, persist. The embedder is optional; without one chunks
// are stored unembedded and remain reachable by keyword search.
type DocumentService struct {
	collections driving.CollectionService
	registry    *normalisers.Registry
	splitter    *chunker.Splitter
	embedder    driven.EmbeddingService
}

// NewDocumentService creates a document service. Pass nil embedder to
// skip embedding at ingest time.
func NewDocumentService(collections driving.CollectionService, registry *normalisers.Registry, splitter *chunker.Splitter, embedder driven.EmbeddingService) *DocumentService {
	return &DocumentService{
		collections: collections,
		registry:    registry,
		splitter:    splitter,
		embedder:    embedder,
	}
}

// AddText ingests raw text into a collection.
func (s *DocumentService) AddText(ctx context.Context, text string, metadata map[string]any, collection string) (*domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document text: %w", domain.ErrInvalidInput)
	}

	store, err := s.collections.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		Content:   text,
		Metadata:  enrich(metadata, text, store.Name()),
		CreatedAt: time.Now().UTC(),
	}

	chunks := s.splitter.Split(doc)
	for i := range chunks {
		chunks[i].Metadata = inherit(doc.Metadata, chunks[i].Position)
	}

	if s.embedder != nil {
		if err := s.embed(ctx, chunks); err != nil {
			// Keyword search still works over unembedded chunks.
			logger.Warn("embedding failed, storing chunks without vectors: %v", err)
		}
	}

	doc.ChunkIDs = make([]string, len(chunks))
	for i := range chunks {
		doc.ChunkIDs[i] = chunks[i].ID
	}

	if _, err := store.AddDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	for i := range chunks {
		if _, err := store.AddChunk(ctx, &chunks[i]); err != nil {
			return nil, fmt.Errorf("store chunk %d: %w", chunks[i].Position, err)
		}
	}

	logger.Debug("ingested document %s: %d chunks into %q", doc.ID, len(chunks), store.Name())
	return doc, nil
}

// AddFile reads a file, extracts its text via the matching normaliser,
// and ingests it with file metadata attached.
func (s *DocumentService) AddFile(ctx context.Context, path, collection string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	normaliser := s.registry.For(path)
	text, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", path, err)
	}

	metadata := map[string]any{
		domain.MetaType: normaliser.TypeName(),
		"filename":      filepath.Base(path),
		"extension":     strings.ToLower(filepath.Ext(path)),
		"size_bytes":    len(raw),
	}
	return s.AddText(ctx, text, metadata, collection)
}

// Get retrieves a document from a collection.
func (s *DocumentService) Get(ctx context.Context, id, collection string) (*domain.Document, error) {
	store, err := s.collections.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}
	return store.GetDocument(ctx, id)
}

// Delete removes a document and its chunks from a collection.
func (s *DocumentService) Delete(ctx context.Context, id, collection string) (bool, error) {
	store, err := s.collections.Resolve(ctx, collection)
	if err != nil {
		return false, err
	}
	return store.DeleteDocument(ctx, id)
}

// embed fills chunk embeddings in one batch call.
func (s *DocumentService) embed(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	return nil
}

// enrich copies caller metadata and fills the reserved keys. A caller
// supplied "type" wins over the default.
func enrich(metadata map[string]any, text, collection string) map[string]any {
	enriched := make(map[string]any, len(metadata)+4)
	for k, v := range metadata {
		enriched[k] = v
	}
	if _, ok := enriched[domain.MetaType]; !ok {
		enriched[domain.MetaType] = "text"
	}
	enriched[domain.MetaWordCount] = domain.WordCount(text)
	enriched[domain.MetaCharCount] = len(text)
	enriched[domain.MetaCollection] = collection
	return enriched
}

// inherit copies document metadata onto a chunk, adding its position.
func inherit(metadata map[string]any, position int) map[string]any {
	inherited := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		inherited[k] = v
	}
	inherited["chunk_position"] = position
	return inherited
}
