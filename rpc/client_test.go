package rpc

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingDialer(attempts *int32) Dialer {
	return func(timeout time.Duration) (*Connection, error) {
		atomic.AddInt32(attempts, 1)
		return nil, NewError(KindTransport, "dial refused", nil)
	}
}

func TestClientRetriesOnceWhenBothCanRetryAndRetryOnceAreTrue(t *testing.T) {
	var attempts int32
	pool := &Pool{dial: failingDialer(&attempts)}
	client := &Client{pool: pool, RetryOnce: true}

	call, err := NewCall("orders.create", nil, nil, map[Flag]bool{FlagCanRetry: true, FlagWantResponse: true})
	require.NoError(t, err)

	_, _, err = client.Call(call)
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts), "should dial once, then retry once")
}

func TestClientDoesNotRetryWhenCallCanRetryIsFalse(t *testing.T) {
	var attempts int32
	pool := &Pool{dial: failingDialer(&attempts)}
	client := &Client{pool: pool, RetryOnce: true}

	call, err := NewCall("orders.create", nil, nil, map[Flag]bool{FlagCanRetry: false, FlagWantResponse: true})
	require.NoError(t, err)

	_, _, err = client.Call(call)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "can_retry=false must not be retried")
}

func TestClientDoesNotRetryWhenClientRetryOnceIsFalse(t *testing.T) {
	var attempts int32
	pool := &Pool{dial: failingDialer(&attempts)}
	client := &Client{pool: pool, RetryOnce: false}

	call, err := NewCall("orders.create", nil, nil, map[Flag]bool{FlagCanRetry: true, FlagWantResponse: true})
	require.NoError(t, err)

	_, _, err = client.Call(call)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "client RetryOnce=false must not be retried")
}

func TestClientDoesNotRetryFireAndForgetCalls(t *testing.T) {
	var attempts int32
	pool := &Pool{dial: failingDialer(&attempts)}
	client := &Client{pool: pool, RetryOnce: true}

	call, err := NewCall("notify.broadcast", nil, nil, map[Flag]bool{FlagCanRetry: true, FlagWantResponse: false})
	require.NoError(t, err)

	_, _, err = client.Call(call)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "want_response=false must not be retried")
}
