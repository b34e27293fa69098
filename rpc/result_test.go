package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryResultGeneratorDrainsThenStops(t *testing.T) {
	g := NewInMemoryResultGenerator([]any{"a", "b"})

	v, ok, err := g.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok, err = g.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok, err = g.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryResultGeneratorCloseIsIdempotent(t *testing.T) {
	g := NewInMemoryResultGenerator([]any{"a"})
	g.Close()
	_, ok, err := g.Next()
	require.NoError(t, err)
	assert.False(t, ok)
	g.Close() // must not panic
}

func TestResultGeneratorCollect(t *testing.T) {
	g := NewInMemoryResultGenerator([]any{1, 2, 3})
	out, err := g.Collect()
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, out)
}
