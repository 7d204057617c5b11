package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/annex-labs/annex-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query        string  `json:"query" jsonschema:"the search query"`
	Collection   string  `json:"collection,omitempty" jsonschema:"collection to search (default collection if empty)"`
	TopK         int     `json:"top_k,omitempty" jsonschema:"maximum number of results (default 5)"`
	VectorWeight float64 `json:"vector_weight,omitempty" jsonschema:"semantic score weight in [0,1] (default 0.7)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Content      string         `json:"content"`
	Score        float64        `json:"score"`
	VectorScore  float64        `json:"vector_score"`
	KeywordScore float64        `json:"keyword_score"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	Text       string `json:"text" jsonschema:"the document text to index"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to add to (default collection if empty)"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// CreateCollectionInput is the input schema for the create_collection tool.
type CreateCollectionInput struct {
	Name string `json:"name" jsonschema:"name of the collection to create"`
}

// CreateCollectionOutput is the output schema for the create_collection tool.
type CreateCollectionOutput struct {
	Name string `json:"name"`
}

// DeleteCollectionInput is the input schema for the delete_collection tool.
type DeleteCollectionInput struct {
	Name string `json:"name" jsonschema:"name of the collection to delete"`
}

// DeleteCollectionOutput is the output schema for the delete_collection tool.
type DeleteCollectionOutput struct {
	Deleted bool `json:"deleted"`
}

// SetDefaultCollectionInput is the input schema for the set_default_collection tool.
type SetDefaultCollectionInput struct {
	Name string `json:"name" jsonschema:"name of the collection to make the default"`
}

// SetDefaultCollectionOutput is the output schema for the set_default_collection tool.
type SetDefaultCollectionOutput struct {
	Default string `json:"default"`
}

// ListCollectionsOutput is the output schema for the list_collections tool.
type ListCollectionsOutput struct {
	Collections []CollectionOutput `json:"collections"`
}

// CollectionOutput represents a single collection listing entry.
type CollectionOutput struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	ChunkCount    int    `json:"chunk_count"`
	IsDefault     bool   `json:"is_default"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Hybrid keyword and semantic search over a collection",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Index a text document into a collection",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_collection",
		Description: "Create a new document collection",
	}, s.handleCreateCollection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List all document collections",
	}, s.handleListCollections)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_collection",
		Description: "Delete a collection and its documents",
	}, s.handleDeleteCollection)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_default_collection",
		Description: "Change the default collection",
	}, s.handleSetDefaultCollection)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.HybridOptions{
		TopK:         input.TopK,
		VectorWeight: input.VectorWeight,
	}
	if input.VectorWeight == 0 {
		opts.VectorWeight = domain.DefaultVectorWeight
	}

	results, err := s.ports.Search.HybridSearch(ctx, input.Query, input.Collection, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Content:      results[i].Content,
			Score:        results[i].Score,
			VectorScore:  results[i].VectorScore,
			KeywordScore: results[i].KeywordScore,
			Metadata:     results[i].Metadata,
		}
	}

	return nil, output, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, AddDocumentOutput{}, errors.New("document service not available")
	}

	metadata := map[string]any{"source": "mcp"}
	doc, err := s.ports.Document.AddText(ctx, input.Text, metadata, input.Collection)
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}

	return nil, AddDocumentOutput{
		DocumentID: doc.ID,
		Chunks:     len(doc.ChunkIDs),
	}, nil
}

// handleCreateCollection handles the create_collection tool invocation.
func (s *Server) handleCreateCollection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateCollectionInput,
) (*mcp.CallToolResult, CreateCollectionOutput, error) {
	if _, err := s.ports.Collection.Create(ctx, input.Name); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, CreateCollectionOutput{}, fmt.Errorf("collection %q already exists", input.Name)
		}
		return nil, CreateCollectionOutput{}, err
	}

	return nil, CreateCollectionOutput{Name: input.Name}, nil
}

// handleDeleteCollection handles the delete_collection tool invocation.
func (s *Server) handleDeleteCollection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteCollectionInput,
) (*mcp.CallToolResult, DeleteCollectionOutput, error) {
	deleted, err := s.ports.Collection.Delete(ctx, input.Name)
	if err != nil {
		if errors.Is(err, domain.ErrProtectedCollection) {
			return nil, DeleteCollectionOutput{}, errors.New("the default collection cannot be deleted")
		}
		return nil, DeleteCollectionOutput{}, err
	}

	return nil, DeleteCollectionOutput{Deleted: deleted}, nil
}

// handleSetDefaultCollection handles the set_default_collection tool invocation.
func (s *Server) handleSetDefaultCollection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetDefaultCollectionInput,
) (*mcp.CallToolResult, SetDefaultCollectionOutput, error) {
	changed, err := s.ports.Collection.SetDefault(ctx, input.Name)
	if err != nil {
		return nil, SetDefaultCollectionOutput{}, err
	}
	if !changed {
		return nil, SetDefaultCollectionOutput{}, fmt.Errorf("collection %q does not exist", input.Name)
	}

	return nil, SetDefaultCollectionOutput{Default: input.Name}, nil
}

// handleListCollections handles the list_collections tool invocation.
func (s *Server) handleListCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	summaries, err := s.ports.Collection.List(ctx)
	if err != nil {
		return nil, ListCollectionsOutput{}, err
	}

	output := ListCollectionsOutput{
		Collections: make([]CollectionOutput, len(summaries)),
	}
	for i, summary := range summaries {
		output.Collections[i] = CollectionOutput{
			Name:          summary.Name,
			DocumentCount: summary.DocumentCount,
			ChunkCount:    summary.ChunkCount,
			IsDefault:     summary.IsDefault,
		}
	}

	return nil, output, nil
}
