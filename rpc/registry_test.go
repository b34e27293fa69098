package rpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServerBinding struct{ closer Closer }

func (f fakeServerBinding) Listen(edge *Edge, bindURL string, logger Logger) (Closer, error) {
	return f.closer, nil
}

type fakeClientBinding struct{ caller Caller }

func (f fakeClientBinding) Dial(remoteURL string, dialTimeout time.Duration) (Caller, error) {
	return f.caller, nil
}

type fakeCloser struct{ closed bool }

func (c *fakeCloser) Close() error { c.closed = true; return nil }

func TestRegistryLookupUnknownScheme(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistryListenDispatchesToRegisteredScheme(t *testing.T) {
	r := NewRegistry()
	closer := &fakeCloser{}
	r.Register("fake", fakeServerBinding{closer: closer}, fakeClientBinding{})

	got, err := r.Listen(nil, "fake://localhost:1234", nil)
	require.NoError(t, err)
	assert.Same(t, Closer(closer), got)
}

func TestRegistryListenUnregisteredSchemeErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Listen(nil, "nope://localhost:1234", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration))
}

func TestRegistryDialDispatchesToRegisteredScheme(t *testing.T) {
	r := NewRegistry()
	want := &fakeCaller{}
	r.Register("fake", fakeServerBinding{}, fakeClientBinding{caller: want})

	got, err := r.Dial("fake://localhost:1234", time.Second)
	require.NoError(t, err)
	assert.Same(t, Caller(want), got)
}

func TestRegistryDialInvalidURL(t *testing.T) {
	r := NewRegistry()
	_, err := r.Dial("not a url", time.Second)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfiguration))
}

type fakeCaller struct{}

func (f *fakeCaller) Call(call *Call) (any, *ResultGenerator, error) { return nil, nil, nil }

func TestDefaultRegistryHasNativeSchemeRegistered(t *testing.T) {
	_, _, ok := DefaultRegistry.Lookup("dirtrpc")
	assert.True(t, ok)
}
