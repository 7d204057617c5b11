package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annex-labs/annex-cli/internal/adapters/driven/storage/memory"
	"github.com/annex-labs/annex-cli/internal/core/services"
	"github.com/annex-labs/annex-cli/internal/normalisers"
	"github.com/annex-labs/annex-cli/internal/postprocessors/chunker"
)

// setupTestServices wires real services over in-memory storage and
// returns a cleanup restoring the previous globals.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldSearch := searchService
	oldCollection := collectionService
	oldDocument := documentService
	oldChat := chatService
	oldConfig := configStore

	collections, err := services.NewCollectionService(context.Background(), memory.NewRegistry())
	require.NoError(t, err)

	collectionService = collections
	documentService = services.NewDocumentService(collections, normalisers.NewRegistry(), chunker.New(), nil)
	searchService = services.NewSearchService(collections, nil)
	chatService = nil
	configStore = nil

	return func() {
		searchService = oldSearch
		collectionService = oldCollection
		documentService = oldDocument
		chatService = oldChat
		configStore = oldConfig
	}
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	require.Equal(t, "annex", rootCmd.Use)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	require.Contains(t, out, "annex version")
}
