package rpc

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxFrameLength bounds the length prefix so a corrupt or hostile peer can't
// make a reader allocate without limit (§4.1 "oversized length beyond a
// configured ceiling").
const maxFrameLength = 64 << 20 // 64 MiB

// writeFrame writes a length-prefixed frame: a 4-byte big-endian length
// followed by exactly that many bytes. Zero-length frames are illegal.
func writeFrame(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return NewError(KindTransport, "refusing to write a zero-length frame", nil)
	}
	if len(data) > maxFrameLength {
		return NewError(KindTransport, "frame exceeds maximum length", nil)
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := w.Write(header[:]); err != nil {
		return NewError(KindTransport, "write frame header", err)
	}
	if _, err := w.Write(data); err != nil {
		return NewError(KindTransport, "write frame body", err)
	}
	return nil
}

// readFrame reads one length-prefixed frame.
func readFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, NewError(KindTransport, "read frame header", err)
	}
	length := binary.BigEndian.Uint32(header[:])
	if length == 0 {
		return nil, NewError(KindTransport, "peer sent a zero-length frame", nil)
	}
	if length > maxFrameLength {
		return nil, NewError(KindTransport, "peer frame exceeds maximum length", nil)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, NewError(KindTransport, "read frame body", err)
	}
	return data, nil
}
