package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgpackCodecRoundTripsCall(t *testing.T) {
	msg := &Message{Type: MsgCall, Payload: &CallPayload{
		Name:   "orders.create",
		Args:   []any{"a", int64(1)},
		Kwargs: map[string]any{"k": "v"},
	}}
	data, err := DefaultCodec.Encode(msg)
	require.NoError(t, err)

	got, err := DefaultCodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgCall, got.Type)
	cp, ok := got.Payload.(*CallPayload)
	require.True(t, ok)
	assert.Equal(t, "orders.create", cp.Name)
	assert.Equal(t, "v", cp.Kwargs["k"])
}

func TestMsgpackCodecRoundTripsStop(t *testing.T) {
	data, err := DefaultCodec.Encode(&Message{Type: MsgStop})
	require.NoError(t, err)
	got, err := DefaultCodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgStop, got.Type)
}

func TestMsgpackCodecRoundTripsReturn(t *testing.T) {
	data, err := DefaultCodec.Encode(&Message{Type: MsgReturn, Payload: "pong"})
	require.NoError(t, err)
	got, err := DefaultCodec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, MsgReturn, got.Type)
	assert.Equal(t, "pong", got.Payload)
}

func TestMsgpackCodecRejectsGarbage(t *testing.T) {
	_, err := DefaultCodec.Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}
