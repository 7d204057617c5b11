// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Annex. It lets AI assistants like Claude search and extend local
// collections.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingCollectionService is returned when the collection service is not provided.
var ErrMissingCollectionService = errors.New("mcp: collection service is required")
