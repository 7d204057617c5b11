package driven

import "context"

// Normaliser extracts plain text from a raw file payload.
// One normaliser handles one family of formats, selected by extension.
type Normaliser interface {
	// Normalise converts raw bytes to plain text.
	Normalise(ctx context.Context, raw []byte) (string, error)

	// Extensions returns the file extensions (with leading dot, lowercase)
	// this normaliser handles.
	Extensions() []string

	// TypeName is the value recorded under the document's "type" metadata
	// key, e.g. "text", "html", "csv".
	TypeName() string
}
