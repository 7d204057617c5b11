package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)

	flag = searchCmd.Flags().Lookup("weight")
	require.NotNil(t, flag)
	assert.Equal(t, "0.7", flag.DefValue)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() { searchService = oldService }()

	_, err := execute(t, "search", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "search", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_FindsIndexedDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	_, err := execute(t, "document", "add", "grafana dashboards for latency monitoring")
	require.NoError(t, err)

	out, err := execute(t, "search", "latency")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "latency")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { searchJSON = false }()

	_, err := execute(t, "document", "add", "incident postmortem notes")
	require.NoError(t, err)

	out, err := execute(t, "search", "--json", "postmortem")

	require.NoError(t, err)
	assert.Contains(t, out, "\"content\"")
	assert.Contains(t, out, "\"keyword_score\"")
}

func TestSearchCmd_InvalidFilter(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer func() { searchFilters = nil }()

	_, err := execute(t, "search", "--filter", "notakeyvalue", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"source=github", "repo=o/r"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"source": "github", "repo": "o/r"}, filters)

	filters, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, filters)

	_, err = parseFilters([]string{"=value"})
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short text", snippet("short\n  text", 50))
	assert.Equal(t, "abcde...", snippet("abcdefgh", 5))
}
