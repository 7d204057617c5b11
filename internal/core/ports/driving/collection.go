package driving

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// CollectionService manages the registry and lifecycle of collections,
// including the distinguished default collection.
type CollectionService interface {
	// Create registers a new collection and its backing store.
	// Returns domain.ErrAlreadyExists if the name is taken.
	Create(ctx context.Context, name string) (driven.CollectionStore, error)

	// Get returns the store for a registered collection.
	// Returns domain.ErrNotFound if unregistered.
	Get(ctx context.Context, name string) (driven.CollectionStore, error)

	// Resolve returns the named collection, or the default collection
	// when name is empty.
	Resolve(ctx context.Context, name string) (driven.CollectionStore, error)

	// Delete unregisters a collection and removes its directory tree.
	// Returns domain.ErrProtectedCollection for the default collection
	// and false (no error) when the name is unregistered.
	Delete(ctx context.Context, name string) (bool, error)

	// List returns one summary per registered collection, in registration
	// order, with the default flagged.
	List(ctx context.Context) ([]domain.CollectionSummary, error)

	// SetDefault changes the default collection pointer.
	// Returns false when the name is unregistered.
	SetDefault(ctx context.Context, name string) (bool, error)

	// Default returns the current default collection store.
	Default(ctx context.Context) (driven.CollectionStore, error)

	// DefaultName returns the current default collection name.
	DefaultName() string
}
