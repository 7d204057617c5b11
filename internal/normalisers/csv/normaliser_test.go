package csv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_LabelsFieldsWithHeaders(t *testing.T) {
	n := New()
	raw := []byte("name,city\nAda,London\nGrace,Washington\n")

	text, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "name: Ada, city: London\nname: Grace, city: Washington", text)
}

func TestNormalise_RaggedRows(t *testing.T) {
	n := New()
	raw := []byte("a,b\n1,2,3\n")

	text, err := n.Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "a: 1, b: 2, 3", text)
}

func TestNormalise_EmptyFile(t *testing.T) {
	n := New()

	text, err := n.Normalise(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, text)
}
