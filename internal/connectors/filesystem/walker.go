// Package filesystem ingests local files into Annex collections, either
// as a one-shot directory walk or by watching for changes.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/logger"
)

// ingestExtensions are the file types picked up by walks and watches.
var ingestExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".log": true,
	".html": true, ".htm": true, ".csv": true,
	".json": true, ".yaml": true, ".yml": true, ".toml": true,
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "vendor": true, ".annex": true,
}

// Walker ingests every eligible file under a directory.
type Walker struct {
	documents driving.DocumentService
}

// NewWalker creates a directory walker.
func NewWalker(documents driving.DocumentService) *Walker {
	return &Walker{documents: documents}
}

// Walk ingests all eligible files under root into the collection and
// returns the number ingested. Unreadable files are logged and skipped.
func (w *Walker) Walk(ctx context.Context, root, collection string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !Eligible(path) {
			return nil
		}

		if _, err := w.documents.AddFile(ctx, path, collection); err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("walk %s: %w", root, err)
	}

	logger.Info("ingested %d files from %s", count, root)
	return count, nil
}

// Eligible reports whether a path is an ingestable file type.
func Eligible(path string) bool {
	return ingestExtensions[strings.ToLower(filepath.Ext(path))]
}
