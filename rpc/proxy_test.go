package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCaller struct {
	lastCall *Call
	value    any
}

func (c *recordingCaller) Call(call *Call) (any, *ResultGenerator, error) {
	c.lastCall = call
	return c.value, nil, nil
}

func TestProxyAttrBuildsDottedName(t *testing.T) {
	caller := &recordingCaller{}
	p := NewProxy(caller)
	leaf := p.Attr("orders").Attr("create")
	_, _, err := leaf.Call(1, 2)
	require.NoError(t, err)
	require.NotNil(t, caller.lastCall)
	assert.Equal(t, "orders.create", caller.lastCall.Name)
}

func TestProxyRootCannotBeInvoked(t *testing.T) {
	p := NewProxy(&recordingCaller{})
	_, _, err := p.Call()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindProtocol))
}

func TestProxyInvokeAppliesCallOptions(t *testing.T) {
	caller := &recordingCaller{value: "ok"}
	p := NewProxy(caller).Attr("notify").Attr("broadcast")

	wantResp := false
	v, _, err := p.Invoke([]any{"hi"}, nil, &CallOptions{WantResponse: &wantResp})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	require.NotNil(t, caller.lastCall)
	assert.False(t, caller.lastCall.WantResponse())
	assert.Equal(t, "notify.broadcast", caller.lastCall.Name)
}
