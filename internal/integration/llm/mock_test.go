package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockConnector_GenerateReturnsLayoutJSON(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	out, err := m.Generate(context.Background(), "Contexte:\nx\n\nQuestion actuelle: Avez-vous des casques ?\n\nRéponds")
	require.NoError(t, err)

	var layout map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	assert.Equal(t, "centered", layout["template"])
	assert.Contains(t, out, "Avez-vous des casques ?")
}

func TestMockConnector_EmbedDeterministic(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	a, err := m.Embed(ctx, "iPhone 15 Pro")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "iphone 15 pro")
	require.NoError(t, err)

	assert.Len(t, a, mockEmbeddingDim)
	assert.Equal(t, a, b)
}
