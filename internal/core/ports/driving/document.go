package driving

import (
	"context"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// DocumentService ingests and manages documents within collections.
type DocumentService interface {
	// AddText ingests raw text with caller metadata into a collection
	// (default collection when collection is empty): the text is chunked,
	// optionally embedded, and persisted.
	AddText(ctx context.Context, text string, metadata map[string]any, collection string) (*domain.Document, error)

	// AddFile extracts text from a file via the normaliser registry and
	// ingests it like AddText, recording file metadata (filename,
	// extension, size, counts).
	AddFile(ctx context.Context, path, collection string) (*domain.Document, error)

	// Get retrieves a document from a collection.
	Get(ctx context.Context, id, collection string) (*domain.Document, error)

	// Delete removes a document and its chunks from a collection.
	// Returns false when the document does not exist.
	Delete(ctx context.Context, id, collection string) (bool, error)
}
