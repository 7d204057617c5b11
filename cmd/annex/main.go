// Command annex is a personal knowledge base with hybrid keyword and
// semantic search, retrieval-augmented chat and an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	configfile "github.com/annex-labs/annex-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/annex-labs/annex-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/annex-labs/annex-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/annex-labs/annex-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/annex-labs/annex-cli/internal/adapters/driven/llm/ollama"
	"github.com/annex-labs/annex-cli/internal/adapters/driven/storage/jsonfs"
	"github.com/annex-labs/annex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/annex-labs/annex-cli/internal/adapters/driving/cli"
	"github.com/annex-labs/annex-cli/internal/core/ports/driven"
	"github.com/annex-labs/annex-cli/internal/core/ports/driving"
	"github.com/annex-labs/annex-cli/internal/core/services"
	"github.com/annex-labs/annex-cli/internal/logger"
	"github.com/annex-labs/annex-cli/internal/normalisers"
	"github.com/annex-labs/annex-cli/internal/postprocessors/chunker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	registry, err := jsonfs.NewRegistry("")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	collections, err := services.NewCollectionService(ctx, registry)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	embedder := buildEmbedder(config)
	llm := buildLLM(config)

	documents := services.NewDocumentService(collections, normalisers.NewRegistry(), buildSplitter(config), embedder)
	search := services.NewSearchService(collections, embedder)

	var chat driving.ChatService
	if llm != nil {
		sessions, err := sqlite.NewSessionStore("")
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		chat = services.NewChatService(sessions, llm, search)
	}

	cli.SetServices(cli.Services{
		Search:     search,
		Collection: collections,
		Document:   documents,
		Chat:       chat,
		Config:     config,
	})

	return cli.Execute()
}

// buildSplitter configures the chunker from config, keeping the built-in
// defaults for unset keys.
func buildSplitter(config driven.ConfigStore) *chunker.Splitter {
	var opts []chunker.Option
	if size := config.GetInt("chunking.size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := config.GetInt("chunking.overlap"); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...)
}

// buildEmbedder constructs the embedding backend named by
// embedding.provider, or nil when unset. A nil embedder degrades search
// to keyword-only rather than failing.
func buildEmbedder(config driven.ConfigStore) driven.EmbeddingService {
	switch provider := config.GetString("embedding.provider"); provider {
	case "ollama":
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    config.GetString("embedding.base_url"),
			Model:      config.GetString("embedding.model"),
			Dimensions: config.GetInt("embedding.dimensions"),
		})
	case "openai":
		service, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  config.GetString("embedding.api_key"),
			BaseURL: config.GetString("embedding.base_url"),
			Model:   config.GetString("embedding.model"),
		})
		if err != nil {
			logger.Warn("embedding disabled: %v", err)
			return nil
		}
		return service
	case "":
		return nil
	default:
		logger.Warn("unknown embedding provider %q, semantic search disabled", provider)
		return nil
	}
}

// buildLLM constructs the LLM backend named by llm.provider, or nil when
// unset. A nil LLM disables chat; everything else keeps working.
func buildLLM(config driven.ConfigStore) driven.LLMService {
	timeout := time.Duration(config.GetInt("llm.timeout_seconds")) * time.Second

	switch provider := config.GetString("llm.provider"); provider {
	case "anthropic":
		service, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  config.GetString("llm.api_key"),
			BaseURL: config.GetString("llm.base_url"),
			Model:   config.GetString("llm.model"),
			Timeout: timeout,
		})
		if err != nil {
			logger.Warn("chat disabled: %v", err)
			return nil
		}
		return service
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: config.GetString("llm.base_url"),
			Model:   config.GetString("llm.model"),
			Timeout: timeout,
		})
	case "":
		return nil
	default:
		logger.Warn("unknown llm provider %q, chat disabled", provider)
		return nil
	}
}
