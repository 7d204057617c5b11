package normalisers

import (
	"path/filepath"
	"strings"

	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/normalisers/csv"
	"github.com/annex-labs/annex-cli/internal/normalisers/html"
	"github.com/annex-labs/annex-cli/internal/normalisers/markdown"
	"github.com/annex-labs/annex-cli/internal/normalisers/plaintext"
)

// Registry maps file extensions to normalisers. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	byExtension map[string]driven.Normaliser
	fallback    driven.Normaliser
}

// NewRegistry builds a registry with all built-in normalisers.
// Unrecognised extensions fall back to plain text.
func NewRegistry() *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Normaliser),
		fallback:    plaintext.New(),
	}
	r.Register(r.fallback)
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(csv.New())
	return r
}

// Register adds a normaliser for each extension it reports, overriding
// any previous registration for the same extension.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExtension[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser for a file path, selected by extension.
func (r *Registry) For(path string) driven.Normaliser {
	ext := strings.ToLower(filepath.Ext(path))
	if n, ok := r.byExtension[ext]; ok {
		return n
	}
	return r.fallback
}
