package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// debounceDelay coalesces write bursts (editors often fire several
// events per save) into one ingest.
const debounceDelay = 500 * time.Millisecond

// Watcher auto-ingests files created or modified under watched
// directories.
type Watcher struct {
	documents  driving.DocumentService
	collection string
	fw         *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher ingesting into the given collection.
func NewWatcher(documents driving.DocumentService, collection string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		documents:  documents,
		collection: collection,
		fw:         fw,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Add registers a directory tree for watching.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// handle reacts to a single filesystem event.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New directories must be added to the watch set.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				logger.Warn("watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !Eligible(event.Name) {
		return
	}
	w.debounce(ctx, event.Name)
}

// debounce schedules an ingest for path, resetting the timer if one is
// already pending.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if _, err := w.documents.AddFile(ctx, path, w.collection); err != nil {
			logger.Warn("auto-ingest %s: %v", path, err)
			return
		}
		logger.Info("auto-ingested %s", path)
	})
}
