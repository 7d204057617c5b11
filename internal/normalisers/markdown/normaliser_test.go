package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_StripsFormatting(t *testing.T) {
	n := New()
	raw := []byte("# Title\n\nSome **bold** text with a [link](https://example.com).\n\n- item one\n- item two\n")

	text, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Some bold text with a link.")
	assert.Contains(t, text, "item one")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "https://example.com")
}

func TestNormalise_DropsCodeBlocksAndImages(t *testing.T) {
	n := New()
	raw := []byte("Before\n\n```go\nfunc secret() {}\n```\n\n![diagram](diagram.png)\n\nAfter")

	text, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Contains(t, text, "Before")
	assert.Contains(t, text, "After")
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "diagram.png")
}
