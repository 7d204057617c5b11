package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/annex-labs/annex-cli/internal/core/domain"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages the collection registry and the distinguished
// default collection. It is constructed once per process and passed to
// every caller that needs collection access; there is no ambient
// singleton.
type CollectionService struct {
	mu          sync.RWMutex
	registry    driven.CollectionRegistry
	stores      map[string]driven.CollectionStore
	order       []string // registration order, drives List
	defaultName string
}

// NewCollectionService loads the persisted registry, opens a store for
// every registered collection, and creates the default collection if it
// is absent. A registered collection whose backing storage is missing
// fails loudly rather than being silently skipped.
func NewCollectionService(ctx context.Context, registry driven.CollectionRegistry) (*CollectionService, error) {
	s := &CollectionService{
		registry: registry,
		stores:   make(map[string]driven.CollectionStore),
	}

	state, err := registry.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		state = &domain.RegistryState{DefaultCollection: domain.DefaultCollection}
	case err != nil:
		return nil, fmt.Errorf("load collection registry: %w", err)
	}

	for _, name := range state.Collections {
		store, err := registry.OpenExisting(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("open collection %q: %w", name, err)
		}
		s.stores[name] = store
		s.order = append(s.order, name)
	}

	s.defaultName = state.DefaultCollection
	if s.defaultName == "" {
		s.defaultName = domain.DefaultCollection
	}

	// Self-heal only the default collection; its absence is expected on
	// first run.
	if _, ok := s.stores[domain.DefaultCollection]; !ok {
		logger.Info("creating default collection")
		store, err := registry.Open(ctx, domain.DefaultCollection)
		if err != nil {
			return nil, fmt.Errorf("create default collection: %w", err)
		}
		s.stores[domain.DefaultCollection] = store
		s.order = append(s.order, domain.DefaultCollection)
		if err := s.persist(ctx); err != nil {
			return nil, err
		}
	}

	logger.Debug("collection service: %d collections, default=%q", len(s.order), s.defaultName)
	return s, nil
}

// persist saves the registry state. Caller must hold at least a read
// lock; callers that mutated state hold the write lock.
func (s *CollectionService) persist(ctx context.Context) error {
	state := &domain.RegistryState{
		Collections:       append([]string(nil), s.order...),
		DefaultCollection: s.defaultName,
	}
	if err := s.registry.Save(ctx, state); err != nil {
		return fmt.Errorf("save collection registry: %w", err)
	}
	return nil
}

// Create registers a new collection and opens its backing store.
func (s *CollectionService) Create(ctx context.Context, name string) (driven.CollectionStore, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[name]; ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrAlreadyExists)
	}

	store, err := s.registry.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	s.stores[name] = store
	s.order = append(s.order, name)
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	logger.Info("created collection %q", name)
	return store, nil
}

// Get returns the store for a registered collection.
func (s *CollectionService) Get(_ context.Context, name string) (driven.CollectionStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store, ok := s.stores[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	return store, nil
}

// Resolve returns the named collection, falling back to the default when
// name is empty.
func (s *CollectionService) Resolve(ctx context.Context, name string) (driven.CollectionStore, error) {
	if name == "" {
		return s.Default(ctx)
	}
	return s.Get(ctx, name)
}

// Delete unregisters a collection and removes its backing storage.
func (s *CollectionService) Delete(ctx context.Context, name string) (bool, error) {
	if name == domain.DefaultCollection {
		return false, domain.ErrProtectedCollection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[name]; !ok {
		return false, nil
	}

	delete(s.stores, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	// A deleted collection cannot stay the default.
	if s.defaultName == name {
		s.defaultName = domain.DefaultCollection
	}

	if err := s.persist(ctx); err != nil {
		return false, err
	}
	if err := s.registry.Remove(ctx, name); err != nil {
		return false, fmt.Errorf("remove collection %q: %w", name, err)
	}

	logger.Info("deleted collection %q", name)
	return true, nil
}

// List returns a summary per collection in registration order.
func (s *CollectionService) List(ctx context.Context) ([]domain.CollectionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.CollectionSummary, 0, len(s.order))
	for _, name := range s.order {
		stats, err := s.stores[name].Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("stats for collection %q: %w", name, err)
		}
		summaries = append(summaries, domain.CollectionSummary{
			Name:          name,
			DocumentCount: stats.DocumentCount,
			ChunkCount:    stats.ChunkCount,
			CreatedAt:     stats.CreatedAt,
			LastUpdated:   stats.LastUpdated,
			IsDefault:     name == s.defaultName,
		})
	}
	return summaries, nil
}

// SetDefault changes the default collection pointer.
func (s *CollectionService) SetDefault(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stores[name]; !ok {
		return false, nil
	}

	s.defaultName = name
	if err := s.persist(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Default returns the current default collection store.
func (s *CollectionService) Default(_ context.Context) (driven.CollectionStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store, ok := s.stores[s.defaultName]
	if !ok {
		return nil, fmt.Errorf("default collection %q: %w", s.defaultName, domain.ErrNotFound)
	}
	return store, nil
}

// DefaultName returns the current default collection name.
func (s *CollectionService) DefaultName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultName
}
