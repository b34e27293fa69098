package rpc

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { b.Close() })
	return NewConnection(a, DefaultCodec), b
}

func TestPoolGetDialsWhenEmpty(t *testing.T) {
	conn, _ := newPipeConnection(t)
	dialed := false
	p := &Pool{dial: func(_ time.Duration) (*Connection, error) {
		dialed = true
		return conn, nil
	}}
	got, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, conn, got)
	assert.True(t, dialed)
}

func TestPoolReleaseThenGetReusesConnection(t *testing.T) {
	conn, _ := newPipeConnection(t)
	calls := 0
	p := &Pool{dial: func(_ time.Duration) (*Connection, error) {
		calls++
		return conn, nil
	}}
	got, err := p.Get()
	require.NoError(t, err)
	p.Release(got)
	assert.Equal(t, 1, p.IdleCount())

	got2, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, conn, got2)
	assert.Equal(t, 1, calls, "reusing an idle connection must not dial again")
}

func TestPoolReleaseDropsClosedConnection(t *testing.T) {
	conn, _ := newPipeConnection(t)
	_ = conn.Disconnect()
	p := &Pool{}
	p.Release(conn)
	assert.Equal(t, 0, p.IdleCount())
}

func TestPoolDiscardClosesConnection(t *testing.T) {
	conn, _ := newPipeConnection(t)
	p := &Pool{}
	p.Discard(conn)
	assert.True(t, conn.Closed())
}

func TestPoolDisconnectClosesAllIdle(t *testing.T) {
	conn1, _ := newPipeConnection(t)
	conn2, _ := newPipeConnection(t)
	p := &Pool{}
	p.Release(conn1)
	p.Release(conn2)
	p.Disconnect()
	assert.True(t, conn1.Closed())
	assert.True(t, conn2.Closed())
	assert.Equal(t, 0, p.IdleCount())
}

func TestPoolForReturnsSamePoolForSameKey(t *testing.T) {
	p1 := PoolFor("dirtrpc", "example:1234", nil, 0)
	p2 := PoolFor("dirtrpc", "example:1234", nil, 0)
	assert.Same(t, p1, p2)
}
