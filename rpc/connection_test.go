package rpc

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionSendRecvRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ca := NewConnection(a, DefaultCodec)
	cb := NewConnection(b, DefaultCodec)

	done := make(chan error, 1)
	go func() { done <- ca.SendMessage(&Message{Type: MsgReturn, Payload: "hi"}) }()

	msg, err := cb.RecvMessage()
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, MsgReturn, msg.Type)
	assert.Equal(t, "hi", msg.Payload)
}

func TestConnectionIDsAreUnique(t *testing.T) {
	a1, b1 := net.Pipe()
	a2, b2 := net.Pipe()
	defer a1.Close()
	defer b1.Close()
	defer a2.Close()
	defer b2.Close()

	c1 := NewConnection(a1, DefaultCodec)
	c2 := NewConnection(a2, DefaultCodec)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestConnectionDisconnectIsIdempotent(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	c := NewConnection(a, DefaultCodec)
	require.NoError(t, c.Disconnect())
	require.NoError(t, c.Disconnect())
	assert.True(t, c.Closed())
}

func TestConnectionRejectsOperationsAfterClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	c := NewConnection(a, DefaultCodec)
	require.NoError(t, c.Disconnect())

	err := c.SendMessage(&Message{Type: MsgReturn, Payload: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))

	_, err = c.RecvMessage()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}
