package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallDefaults(t *testing.T) {
	c, err := NewCall("orders.create", []any{1}, nil, nil)
	require.NoError(t, err)
	assert.True(t, c.WantResponse())
	assert.True(t, c.CanRetry())
	assert.NotNil(t, c.Kwargs)
}

func TestNewCallRejectsEmptyName(t *testing.T) {
	_, err := NewCall("", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocol))
}

func TestNewCallRejectsUnknownFlag(t *testing.T) {
	_, err := NewCall("x", nil, nil, map[Flag]bool{Flag("bogus"): true})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocol))
}

func TestNewCallHonorsExplicitFlags(t *testing.T) {
	c, err := NewCall("notify.broadcast", nil, nil, map[Flag]bool{FlagWantResponse: false})
	require.NoError(t, err)
	assert.False(t, c.WantResponse())
	assert.True(t, c.CanRetry())
}

func TestCallHead(t *testing.T) {
	head, rest := (&Call{Name: "orders.create"}).Head()
	assert.Equal(t, "orders", head)
	assert.Equal(t, "create", rest)

	head, rest = (&Call{Name: "ping"}).Head()
	assert.Equal(t, "ping", head)
	assert.Equal(t, "", rest)
}
