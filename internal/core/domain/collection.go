package domain

import "time"

// DefaultCollection is the name of the collection that always exists and
// can never be deleted.
const DefaultCollection = "default"

// CollectionMeta holds the persisted per-collection metadata record.
// The counters are best-effort caches; they are kept in sync on every
// add/delete but can be rebuilt from the record files if lost.
type CollectionMeta struct {
	// Name is the collection name, unique within a manager. It doubles
	// as the on-disk directory name.
	Name string `json:"name"`

	// DocumentCount is the number of document records.
	DocumentCount int `json:"document_count"`

	// ChunkCount is the number of chunk records.
	ChunkCount int `json:"chunk_count"`

	// CreatedAt is when the collection was created.
	CreatedAt time.Time `json:"created_at"`

	// LastUpdated is refreshed on every metadata-mutating operation.
	LastUpdated time.Time `json:"last_updated"`
}

// CollectionStats is a point-in-time snapshot of a collection, including a
// live recomputation of on-disk storage size.
type CollectionStats struct {
	CollectionMeta

	// StorageSizeBytes is the summed byte size of all document, chunk and
	// metadata records. Recomputed on every call, never cached.
	StorageSizeBytes int64 `json:"storage_size_bytes"`
}

// CollectionSummary is one entry of a collection listing.
type CollectionSummary struct {
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	ChunkCount    int       `json:"chunk_count"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
	IsDefault     bool      `json:"is_default"`
}

// RegistryState is the persisted collection registry: the set of known
// collection names (in registration order) and the current default.
type RegistryState struct {
	// Collections lists registered collection names in registration order.
	Collections []string `json:"collections"`

	// DefaultCollection always resolves to a registered collection.
	DefaultCollection string `json:"default_collection"`

	// LastUpdated is refreshed on every registry mutation.
	LastUpdated time.Time `json:"last_updated"`
}

// Has reports whether name is registered.
func (r *RegistryState) Has(name string) bool {
	for _, n := range r.Collections {
		if n == name {
			return true
		}
	}
	return false
}

// Remove deletes name from the registered set, preserving order.
// It reports whether the name was present.
func (r *RegistryState) Remove(name string) bool {
	for i, n := range r.Collections {
		if n == name {
			r.Collections = append(r.Collections[:i], r.Collections[i+1:]...)
			return true
		}
	}
	return false
}
