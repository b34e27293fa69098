package rpc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, []byte("hello")))

	data, err := readFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestWriteFrameRejectsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := writeFrame(&buf, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}

func TestWriteFrameRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	err := writeFrame(&buf, make([]byte, maxFrameLength+1))
	require.Error(t, err)
}

func TestReadFrameEOFOnEmptyReader(t *testing.T) {
	var buf bytes.Buffer
	_, err := readFrame(&buf)
	require.Error(t, err)
}
