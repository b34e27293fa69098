package rpc

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/Montana/dirt/help"
)

// Connection owns one socket and frames Messages over it. It is not safe
// for concurrent writers (§4.2); the pool guarantees single-tenancy between
// checkout and return.
type Connection struct {
	conn   net.Conn
	codec  Codec
	closed atomic.Bool

	// ID locally identifies this connection in logs and debug snapshots; it
	// has no wire meaning. Minted from the shared snowflake-style generator
	// rather than a plain counter so it stays unique across the pool and
	// server accept loop without either needing to coordinate.
	ID uint64

	// RemoteURL is the client-side view of where this connection dials;
	// PeerAddr is the server-side view of who connected. Exactly one is
	// populated depending on which side constructed the Connection.
	RemoteURL string
	PeerAddr  string
}

// NewConnection wraps an established net.Conn.
func NewConnection(conn net.Conn, codec Codec) *Connection {
	if codec == nil {
		codec = DefaultCodec
	}
	return &Connection{conn: conn, codec: codec, ID: help.GetDefaultIDGenerator().GenerateID()}
}

// SendMessage encodes and frames msg onto the socket.
func (c *Connection) SendMessage(msg *Message) error {
	if c.closed.Load() {
		return NewError(KindTransport, "send on closed connection", nil)
	}
	data, err := c.codec.Encode(msg)
	if err != nil {
		c.Disconnect()
		return err
	}
	if err := writeFrame(c.conn, data); err != nil {
		c.Disconnect()
		return err
	}
	return nil
}

// RecvMessage reads and decodes the next framed message.
func (c *Connection) RecvMessage() (*Message, error) {
	if c.closed.Load() {
		return nil, NewError(KindTransport, "recv on closed connection", nil)
	}
	data, err := readFrame(c.conn)
	if err != nil {
		if err == io.EOF {
			c.Disconnect()
			return nil, err
		}
		c.Disconnect()
		return nil, err
	}
	msg, err := c.codec.Decode(data)
	if err != nil {
		c.Disconnect()
		return nil, err
	}
	return msg, nil
}

// Disconnect closes the underlying socket. Idempotent.
func (c *Connection) Disconnect() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}

// Closed reports whether the connection has been disconnected.
func (c *Connection) Closed() bool { return c.closed.Load() }
