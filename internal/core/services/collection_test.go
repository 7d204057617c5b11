package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/adapters/driven/storage/memory"
	"github.com/annex-labs/annex-cli/internal/core/domain"
)

func TestNewCollectionService_CreatesDefaultOnFirstRun(t *testing.T) {
	registry := memory.NewRegistry()

	svc, err := NewCollectionService(context.Background(), registry)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultCollection, svc.DefaultName())

	store, err := svc.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollection, store.Name())

	// The registry is persisted so a second service sees the same state.
	state, err := registry.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, state.Collections, domain.DefaultCollection)
}

func TestNewCollectionService_ReloadsPersistedState(t *testing.T) {
	registry := memory.NewRegistry()
	ctx := context.Background()

	first, err := NewCollectionService(ctx, registry)
	require.NoError(t, err)
	_, err = first.Create(ctx, "work")
	require.NoError(t, err)
	ok, err := first.SetDefault(ctx, "work")
	require.NoError(t, err)
	require.True(t, ok)

	second, err := NewCollectionService(ctx, registry)
	require.NoError(t, err)

	assert.Equal(t, "work", second.DefaultName())
	_, err = second.Get(ctx, "work")
	assert.NoError(t, err)
}

func TestNewCollectionService_FailsWhenRegisteredStorageMissing(t *testing.T) {
	registry := memory.NewRegistry()
	ctx := context.Background()

	// Registry names a collection that was never materialised.
	require.NoError(t, registry.Save(ctx, &domain.RegistryState{
		Collections:       []string{"phantom"},
		DefaultCollection: "phantom",
	}))

	_, err := NewCollectionService(ctx, registry)

	require.Error(t, err)
	var storageErr *domain.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestCollectionService_CreateAndGet(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	store, err := svc.Create(ctx, "projects")
	require.NoError(t, err)
	assert.Equal(t, "projects", store.Name())

	got, err := svc.Get(ctx, "projects")
	require.NoError(t, err)
	assert.Equal(t, store, got)

	_, err = svc.Create(ctx, "projects")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectionService_ResolveEmptyNameIsDefault(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	store, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollection, store.Name())

	_, err = svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionService_DeleteProtectsDefault(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), domain.DefaultCollection)

	assert.ErrorIs(t, err, domain.ErrProtectedCollection)
}

func TestCollectionService_Delete(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, "temp")
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "temp")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, "temp")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err = svc.Delete(ctx, "temp")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCollectionService_ListMarksDefault(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	store, err := svc.Create(ctx, "work")
	require.NoError(t, err)
	_, err = store.AddDocument(ctx, &domain.Document{Content: "x"})
	require.NoError(t, err)

	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, domain.DefaultCollection, summaries[0].Name)
	assert.True(t, summaries[0].IsDefault)
	assert.Equal(t, "work", summaries[1].Name)
	assert.False(t, summaries[1].IsDefault)
	assert.Equal(t, 1, summaries[1].DocumentCount)
}

func TestCollectionService_SetDefault(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := svc.SetDefault(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.DefaultCollection, svc.DefaultName())

	_, err = svc.Create(ctx, "work")
	require.NoError(t, err)
	ok, err = svc.SetDefault(ctx, "work")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "work", svc.DefaultName())
}

func TestCollectionService_DeleteCurrentDefaultResetsPointer(t *testing.T) {
	svc, err := NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Create(ctx, "work")
	require.NoError(t, err)
	ok, err := svc.SetDefault(ctx, "work")
	require.NoError(t, err)
	require.True(t, ok)

	deleted, err := svc.Delete(ctx, "work")
	require.NoError(t, err)
	require.True(t, deleted)

	assert.Equal(t, domain.DefaultCollection, svc.DefaultName())
}
