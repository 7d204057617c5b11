package mcp

import (
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides hybrid search capabilities.
	Search driving.SearchService

	// Collection manages collections.
	Collection driving.CollectionService

	// Document manages documents within collections.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Collection == nil {
		return ErrMissingCollectionService
	}
	// Document is optional; the add_document tool degrades gracefully.
	return nil
}
