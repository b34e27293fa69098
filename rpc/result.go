package rpc

import "fmt"

// RemoteError wraps a description string a peer's method raised (§4.4 step
// 4 "raise"). Its string form is not parsed by the client (§7).
type RemoteError struct {
	Description string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote application error: %s", e.Description)
}

// ResultGenerator is the lazy sequence returned for a streaming (yield/stop)
// response. It owns the connection it was constructed with and gives it up
// exactly once (§4.4, §9 "Generator-valued results"): the connection goes
// back to the pool when the stream ends with "stop" or "raise"; on an
// explicit Close or a transport/protocol fault it is closed instead and not
// returned to the pool.
type ResultGenerator struct {
	pool     *Pool
	conn     *Connection
	released bool
	err      error
	done     bool

	hasPending bool
	pending    any

	// memValues/memIdx back an in-memory ResultGenerator (grpcbinding's
	// drained-sequence case, or tests), which owns no pooled connection.
	memValues []any
	memIdx    int
	inMemory  bool
}

func newResultGenerator(pool *Pool, conn *Connection) *ResultGenerator {
	return &ResultGenerator{pool: pool, conn: conn}
}

// newResultGeneratorWithFirst is used when the client has already read the
// first "yield" message off the wire while deciding the response was a
// stream; that value is replayed before Next reads anything further.
func newResultGeneratorWithFirst(pool *Pool, conn *Connection, first any) *ResultGenerator {
	return &ResultGenerator{pool: pool, conn: conn, hasPending: true, pending: first}
}

// NewInMemoryResultGenerator wraps an already-fully-collected slice of
// values as a ResultGenerator that owns no connection. Used by protocol
// bindings (grpcbinding) whose transport doesn't stream and instead
// returns a drained sequence in one response.
func NewInMemoryResultGenerator(values []any) *ResultGenerator {
	return &ResultGenerator{memValues: values, inMemory: true}
}

// Next blocks for the next yielded value. It returns (value, true, nil) for
// each item, (nil, false, nil) after the terminal "stop", and (nil, false,
// err) if a transport fault aborts the stream. Calling Next after false/err
// is a no-op returning the same terminal result.
func (g *ResultGenerator) Next() (any, bool, error) {
	if g.inMemory {
		if g.memIdx >= len(g.memValues) {
			return nil, false, nil
		}
		v := g.memValues[g.memIdx]
		g.memIdx++
		return v, true, nil
	}
	if g.hasPending {
		g.hasPending = false
		v := g.pending
		g.pending = nil
		return v, true, nil
	}
	if g.done {
		return nil, false, g.err
	}
	msg, err := g.conn.RecvMessage()
	if err != nil {
		g.err = err
		g.finish(true)
		return nil, false, err
	}
	switch msg.Type {
	case MsgYield:
		return msg.Payload, true, nil
	case MsgStop:
		g.finish(false)
		return nil, false, nil
	case MsgRaise:
		desc, _ := msg.Payload.(string)
		g.err = &RemoteError{Description: desc}
		g.finish(false)
		return nil, false, g.err
	default:
		g.err = NewError(KindProtocol, "unexpected message type in stream", nil)
		g.finish(true)
		return nil, false, g.err
	}
}

// Close aborts the stream early, closing its connection. Safe to call
// after exhaustion (no-op) or on an in-memory generator.
func (g *ResultGenerator) Close() {
	if g.inMemory {
		g.memIdx = len(g.memValues)
		return
	}
	g.finish(true)
}

func (g *ResultGenerator) finish(discard bool) {
	if g.released {
		return
	}
	g.released = true
	g.done = true
	if discard {
		g.pool.Discard(g.conn)
	} else {
		g.pool.Release(g.conn)
	}
}

// Collect drains the generator into a slice, for callers (and bindings,
// see grpcbinding) that need the full sequence rather than incremental
// consumption.
func (g *ResultGenerator) Collect() ([]any, error) {
	var out []any
	for {
		v, ok, err := g.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}
