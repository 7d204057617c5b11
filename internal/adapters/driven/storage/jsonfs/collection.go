package jsonfs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// Ensure Collection implements the interface.
var _ driven.CollectionStore = (*Collection)(nil)

// Subdirectory and file names within a collection directory.
const (
	documentsDir = "documents"
	chunksDir    = "chunks"
	metadataFile = "metadata.json"
	recordExt    = ".json"
)

// Collection stores the documents and chunks of one collection as JSON
// records under its own directory.
//
// The metadata counters are updated under a mutex: the read-modify-persist
// sequence would otherwise lose updates with concurrent writers.
type Collection struct {
	mu   sync.Mutex
	name string
	dir  string
	meta domain.CollectionMeta
}

// OpenCollection opens (or creates) the collection directory under
// baseDir and loads its metadata. Missing metadata is rebuilt from a
// directory scan, so the counters survive a lost metadata record.
func OpenCollection(baseDir, name string) (*Collection, error) {
	c := &Collection{
		name: name,
		dir:  filepath.Join(baseDir, name),
	}

	for _, sub := range []string{documentsDir, chunksDir} {
		path := filepath.Join(c.dir, sub)
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, domain.NewStorageError("create directory", path, err)
		}
	}

	if err := c.loadMeta(); err != nil {
		return nil, err
	}

	return c, nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Dir returns the collection's backing directory.
func (c *Collection) Dir() string {
	return c.dir
}

// loadMeta reads metadata.json, reconciling from a directory scan when the
// record is missing or unreadable.
func (c *Collection) loadMeta() error {
	path := filepath.Join(c.dir, metadataFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, &c.meta); jsonErr == nil {
			logger.Debug("collection %q: loaded metadata (%d docs, %d chunks)",
				c.name, c.meta.DocumentCount, c.meta.ChunkCount)
			return nil
		}
		logger.Warn("collection %q: unreadable metadata, reconciling from records", c.name)
	case errors.Is(err, fs.ErrNotExist):
		// First open, or the record was lost.
	default:
		return domain.NewStorageError("read metadata", path, err)
	}

	return c.reconcile()
}

// reconcile rebuilds the counters from the record files and persists a
// fresh metadata record.
func (c *Collection) reconcile() error {
	docs, err := c.countRecords(documentsDir)
	if err != nil {
		return err
	}
	chunks, err := c.countRecords(chunksDir)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	c.meta = domain.CollectionMeta{
		Name:          c.name,
		DocumentCount: docs,
		ChunkCount:    chunks,
		CreatedAt:     now,
	}
	return c.saveMeta()
}

// countRecords counts the JSON records in a subdirectory.
func (c *Collection) countRecords(sub string) (int, error) {
	dir := filepath.Join(c.dir, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, domain.NewStorageError("scan directory", dir, err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), recordExt) {
			count++
		}
	}
	return count, nil
}

// saveMeta persists the metadata record, refreshing LastUpdated.
// Caller must hold the mutex (or be single-threaded during open).
func (c *Collection) saveMeta() error {
	c.meta.LastUpdated = time.Now().UTC()
	path := filepath.Join(c.dir, metadataFile)
	return writeJSON(path, &c.meta)
}

// AddDocument stores a document record and increments the document counter.
func (c *Collection) AddDocument(_ context.Context, doc *domain.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	path := c.documentPath(doc.ID)
	if err := writeJSON(path, doc); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta.DocumentCount++
	if err := c.saveMeta(); err != nil {
		return "", err
	}

	logger.Debug("collection %q: added document %s", c.name, doc.ID)
	return doc.ID, nil
}

// AddChunk stores a chunk record and increments the chunk counter.
func (c *Collection) AddChunk(_ context.Context, chunk *domain.Chunk) (string, error) {
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}

	path := c.chunkPath(chunk.ID)
	if err := writeJSON(path, chunk); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta.ChunkCount++
	if err := c.saveMeta(); err != nil {
		return "", err
	}

	return chunk.ID, nil
}

// GetDocument retrieves a document by ID.
func (c *Collection) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := readJSON(c.documentPath(id), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetChunk retrieves a chunk by ID.
func (c *Collection) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	var chunk domain.Chunk
	if err := readJSON(c.chunkPath(id), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

// ListChunks returns every chunk record in the collection, in record-name
// order so repeated scans are deterministic.
func (c *Collection) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	dir := filepath.Join(c.dir, chunksDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewStorageError("scan directory", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), recordExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	chunks := make([]domain.Chunk, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var chunk domain.Chunk
		if err := readJSON(filepath.Join(dir, name), &chunk); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Deleted between listing and reading.
				continue
			}
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// DeleteDocument removes a document record, cascades deletion to every
// chunk owned by it, and decrements both counters by the exact amounts.
// Returns false with no side effect when the document does not exist.
func (c *Collection) DeleteDocument(ctx context.Context, id string) (bool, error) {
	path := c.documentPath(id)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, domain.NewStorageError("stat document", path, err)
	}

	if err := os.Remove(path); err != nil {
		return false, domain.NewStorageError("delete document", path, err)
	}

	chunks, err := c.ListChunks(ctx)
	if err != nil {
		return false, err
	}

	removed := 0
	for i := range chunks {
		if chunks[i].DocumentID != id {
			continue
		}
		chunkPath := c.chunkPath(chunks[i].ID)
		if err := os.Remove(chunkPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, domain.NewStorageError("delete chunk", chunkPath, err)
		}
		removed++
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta.DocumentCount = decrement(c.meta.DocumentCount, 1)
	c.meta.ChunkCount = decrement(c.meta.ChunkCount, removed)
	if err := c.saveMeta(); err != nil {
		return false, err
	}

	logger.Debug("collection %q: deleted document %s (%d chunks)", c.name, id, removed)
	return true, nil
}

// Search ranks all embedded chunks by cosine similarity against the query
// embedding. Chunks without an embedding are skipped; ties keep scan
// order (stable sort).
func (c *Collection) Search(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.VectorHit, error) {
	chunks, err := c.ListChunks(ctx)
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

// Stats returns the metadata snapshot plus a live recomputation of the
// on-disk storage size.
func (c *Collection) Stats(_ context.Context) (domain.CollectionStats, error) {
	size, err := c.storageSize()
	if err != nil {
		return domain.CollectionStats{}, err
	}

	c.mu.Lock()
	meta := c.meta
	c.mu.Unlock()

	return domain.CollectionStats{
		CollectionMeta:   meta,
		StorageSizeBytes: size,
	}, nil
}

// storageSize sums the byte sizes of all document, chunk and metadata
// records.
func (c *Collection) storageSize() (int64, error) {
	var total int64

	for _, sub := range []string{documentsDir, chunksDir} {
		dir := filepath.Join(c.dir, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return 0, domain.NewStorageError("scan directory", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			total += info.Size()
		}
	}

	if info, err := os.Stat(filepath.Join(c.dir, metadataFile)); err == nil {
		total += info.Size()
	}

	return total, nil
}

func (c *Collection) documentPath(id string) string {
	return filepath.Join(c.dir, documentsDir, id+recordExt)
}

func (c *Collection) chunkPath(id string) string {
	return filepath.Join(c.dir, chunksDir, id+recordExt)
}

// decrement subtracts without going below zero; the counters are advisory
// and must never turn negative.
func decrement(n, by int) int {
	n -= by
	if n < 0 {
		return 0
	}
	return n
}

// writeJSON marshals v and writes it via a temp file and rename, so a
// crash mid-write never leaves a truncated record.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.NewStorageError("marshal record", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return domain.NewStorageError("create temp file", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.NewStorageError("write record", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.NewStorageError("close record", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return domain.NewStorageError("rename record", path, err)
	}
	return nil
}

// readJSON reads and unmarshals a record. A missing file maps to
// domain.ErrNotFound; anything else is a storage error.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNotFound
	}
	if err != nil {
		return domain.NewStorageError("read record", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return domain.NewStorageError("unmarshal record", path, err)
	}
	return nil
}
