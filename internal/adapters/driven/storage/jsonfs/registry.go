package jsonfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.CollectionRegistry = (*Registry)(nil)

// registryFile is the top-level registry record.
const registryFile = "collections.json"

// Registry persists the collection registry under a base directory and
// opens the per-collection stores beneath it.
type Registry struct {
	baseDir string
}

// NewRegistry creates a registry rooted at baseDir, creating the
// directory if needed. If baseDir is empty, defaults to
// ~/.annex/collections.
func NewRegistry(baseDir string) (*Registry, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, domain.NewStorageError("resolve home directory", "~", err)
		}
		baseDir = filepath.Join(home, ".annex", "collections")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, domain.NewStorageError("create directory", baseDir, err)
	}

	return &Registry{baseDir: baseDir}, nil
}

// BaseDir returns the registry's root directory.
func (r *Registry) BaseDir() string {
	return r.baseDir
}

// Load reads the persisted registry state.
func (r *Registry) Load(_ context.Context) (*domain.RegistryState, error) {
	var state domain.RegistryState
	if err := readJSON(r.statePath(), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save persists the registry state.
func (r *Registry) Save(_ context.Context, state *domain.RegistryState) error {
	return writeJSON(r.statePath(), state)
}

// Open returns the store for a collection, creating its backing directory
// if needed.
func (r *Registry) Open(_ context.Context, name string) (driven.CollectionStore, error) {
	return OpenCollection(r.baseDir, name)
}

// OpenExisting returns the store for a collection whose directory must
// already exist. A registered name without a directory is a storage
// error: something outside the manager removed it, and silently
// recreating it would hide the loss.
func (r *Registry) OpenExisting(ctx context.Context, name string) (driven.CollectionStore, error) {
	dir := filepath.Join(r.baseDir, name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewStorageError("open collection", dir, fs.ErrNotExist)
	} else if err != nil {
		return nil, domain.NewStorageError("open collection", dir, err)
	}
	return r.Open(ctx, name)
}

// Remove deletes a collection's backing directory tree.
func (r *Registry) Remove(_ context.Context, name string) error {
	dir := filepath.Join(r.baseDir, name)
	if err := os.RemoveAll(dir); err != nil {
		return domain.NewStorageError("remove collection", dir, err)
	}
	return nil
}

func (r *Registry) statePath() string {
	return filepath.Join(r.baseDir, registryFile)
}
