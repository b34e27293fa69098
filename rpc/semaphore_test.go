package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemaphoreNilDisablesLimiting(t *testing.T) {
	s := NewSemaphore(0)
	assert.Nil(t, s)
	assert.True(t, s.TryAcquire())
	s.Release() // must not panic on a nil receiver
}

func TestSemaphoreBoundsConcurrency(t *testing.T) {
	s := NewSemaphore(1)
	require := assert.New(t)
	require.True(s.TryAcquire())
	require.False(s.TryAcquire(), "second acquire must fail while capacity is exhausted")
	s.Release()
	require.True(s.TryAcquire(), "release must free the slot back up")
}

func TestSemaphoreAcquireBlocksThenUnblocks(t *testing.T) {
	s := NewSemaphore(1)
	s.Acquire()
	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("second Acquire should not have returned before Release")
	default:
	}
	s.Release()
	<-done
}
