package app

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Montana/dirt/config"
	"github.com/Montana/dirt/rpc"
	"github.com/Montana/dirt/runloop"
)

type driverStubAPI struct{}

func (driverStubAPI) Ping(args []any, kwargs map[string]any) (any, error) { return "pong", nil }

type driverStubApp struct{ api driverStubAPI }

func (a *driverStubApp) Name() string { return "stub" }
func (a *driverStubApp) API() any     { return a.api }

func TestDriverStartStopLifecycle(t *testing.T) {
	a := &driverStubApp{}
	d := NewDriver(a, config.AppSettings{BindURL: "dirtrpc://127.0.0.1:0"}, rpc.DefaultRegistry, rpc.NopLogger{})
	require.NoError(t, d.Start())
	require.NoError(t, d.Stop())
}

func TestDriverStartRequiresBindURL(t *testing.T) {
	a := &driverStubApp{}
	d := NewDriver(a, config.AppSettings{}, rpc.DefaultRegistry, rpc.NopLogger{})
	err := d.Start()
	require.Error(t, err)
}

type driverServerApp struct {
	driverStubApp
	calls int32
	stop  chan struct{}
}

func (a *driverServerApp) Serve(resolver Resolver, tick func()) error {
	atomic.AddInt32(&a.calls, 1)
	tick()
	<-a.stop
	return runloop.ErrDone
}

func TestDriverStartsServeLoopForServerApps(t *testing.T) {
	a := &driverServerApp{stop: make(chan struct{})}
	d := NewDriver(a, config.AppSettings{BindURL: "dirtrpc://127.0.0.1:0"}, rpc.DefaultRegistry, rpc.NopLogger{})
	require.NoError(t, d.Start())

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&a.calls) >= 1
	}, time.Second, 5*time.Millisecond)

	close(a.stop)
	require.NoError(t, d.Stop())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&a.calls), int32(1))
}
