// Package plaintext passes text files through unchanged. It is the
// fallback for unrecognised extensions.
package plaintext

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text files.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise returns the payload as-is.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	return string(raw), nil
}

// Extensions returns the handled file extensions.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".log", ".json", ".yaml", ".yml", ".toml", ".go", ".py", ".sh", ".sql"}
}

// TypeName returns the document type recorded in metadata.
func (n *Normaliser) TypeName() string {
	return "text"
}
