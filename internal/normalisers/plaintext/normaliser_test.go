package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_PassThrough(t *testing.T) {
	n := New()

	text, err := n.Normalise(context.Background(), []byte("raw text\nwith lines"))
	require.NoError(t, err)

	assert.Equal(t, "raw text\nwith lines", text)
}
