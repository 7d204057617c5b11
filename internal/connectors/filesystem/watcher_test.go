package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	walker, _ := newWalkerFixture(t)
	watcher, err := NewWatcher(walker.documents, "")
	require.NoError(t, err)
	t.Cleanup(func() { watcher.fw.Close() })
	return watcher
}

func TestWatcherAdd_MissingDirectory(t *testing.T) {
	watcher := newTestWatcher(t)

	err := watcher.Add("/nonexistent/path")

	assert.Error(t, err)
}

func TestWatcherAdd_SkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755))

	watcher := newTestWatcher(t)

	err := watcher.Add(dir)

	require.NoError(t, err)
	assert.Contains(t, watcher.fw.WatchList(), dir)
	assert.NotContains(t, watcher.fw.WatchList(), filepath.Join(dir, ".git"))
}

func TestWatcherHandle_SchedulesEligibleFiles(t *testing.T) {
	watcher := newTestWatcher(t)

	watcher.handle(context.Background(), fsnotify.Event{
		Name: "/tmp/notes.md",
		Op:   fsnotify.Write,
	})

	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	assert.Contains(t, watcher.pending, "/tmp/notes.md")
}

func TestWatcherHandle_IgnoresIneligibleFiles(t *testing.T) {
	watcher := newTestWatcher(t)

	watcher.handle(context.Background(), fsnotify.Event{
		Name: "/tmp/photo.jpg",
		Op:   fsnotify.Write,
	})
	watcher.handle(context.Background(), fsnotify.Event{
		Name: "/tmp/notes.md",
		Op:   fsnotify.Remove,
	})

	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	assert.Empty(t, watcher.pending)
}

func TestWatcherHandle_DebounceResetsTimer(t *testing.T) {
	watcher := newTestWatcher(t)
	ctx := context.Background()

	watcher.handle(ctx, fsnotify.Event{Name: "/tmp/a.md", Op: fsnotify.Write})
	watcher.handle(ctx, fsnotify.Event{Name: "/tmp/a.md", Op: fsnotify.Write})

	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	assert.Len(t, watcher.pending, 1)
}

func TestWatcherRun_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	watcher := newTestWatcher(t)
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := watcher.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
