package rpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsWithAndWithoutCause(t *testing.T) {
	plain := NewError(KindTimeout, "call timed out", nil)
	assert.Contains(t, plain.Error(), "timeout")
	assert.Contains(t, plain.Error(), "call timed out")

	wrapped := NewError(KindTransport, "dial failed", errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := NewError(KindTransport, "x", cause)
	assert.Same(t, cause, errors.Unwrap(e))
}

func TestExpectMarksExpected(t *testing.T) {
	e := Expect(NewError(KindNotFound, "no method", nil))
	assert.True(t, e.Expected)
}

func TestIsKindMatchesWrappedError(t *testing.T) {
	inner := NewError(KindNotFound, "no method", nil)
	outer := fmt.Errorf("wrap: %w", inner)
	assert.True(t, IsKind(outer, KindNotFound))
	assert.True(t, IsKind(inner, KindNotFound))
	assert.False(t, IsKind(inner, KindTimeout))
	assert.False(t, IsKind(errors.New("plain"), KindTimeout))
}

func TestKindStringCoversAllValues(t *testing.T) {
	kinds := []Kind{KindTransport, KindProtocol, KindRemoteApplication, KindTimeout,
		KindAdmissionSaturation, KindNotFound, KindConfiguration}
	for _, k := range kinds {
		assert.NotEqual(t, "unknown", k.String())
	}
}
