package rpc

import "time"

// Caller is whatever a Proxy needs to execute a Call: the native *Client,
// or an alternative protocol binding's own implementation (grpcbinding).
type Caller interface {
	Call(call *Call) (value any, gen *ResultGenerator, err error)
}

// Client executes Calls against one remote address through a connection
// pool, with the AND-retry policy fixed by §9's resolution of the source's
// ambiguous retry flag interaction: a transport fault is retried once only
// when both the call's can_retry flag AND the client's RetryOnce setting
// are true.
type Client struct {
	pool       *Pool
	RetryOnce  bool
	DialTimeout time.Duration
}

// NewClient builds a Client against addr using the native dirtrpc protocol.
// scheme distinguishes pools sharing a host across protocols (dirtrpc vs
// grpc, see grpcbinding).
func NewClient(scheme, addr string, dialTimeout time.Duration) *Client {
	pool := PoolFor(scheme, addr, netDialer(addr), dialTimeout)
	return &Client{pool: pool, RetryOnce: true, DialTimeout: dialTimeout}
}

// NewClientWithPool builds a Client over an already-constructed Pool, used
// by alternative protocol bindings that supply their own Dialer.
func NewClientWithPool(pool *Pool) *Client {
	return &Client{pool: pool, RetryOnce: true}
}

// Call executes call per §4.4's numbered procedure.
func (c *Client) Call(call *Call) (any, *ResultGenerator, error) {
	value, gen, err := c.attempt(call)
	if err == nil {
		return value, gen, nil
	}
	if !IsKind(err, KindTransport) {
		return nil, nil, err
	}
	if !call.CanRetry() || !c.RetryOnce || !call.WantResponse() {
		return nil, nil, err
	}
	return c.attempt(call)
}

func (c *Client) attempt(call *Call) (any, *ResultGenerator, error) {
	conn, err := c.pool.Get()
	if err != nil {
		return nil, nil, err
	}

	msgType := MsgCall
	if !call.WantResponse() {
		msgType = MsgCallIgnore
	}
	callMsg := &Message{Type: msgType, Payload: &CallPayload{
		Name:   call.Name,
		Args:   call.Args,
		Kwargs: call.Kwargs,
	}}

	if err := conn.SendMessage(callMsg); err != nil {
		c.pool.Discard(conn)
		return nil, nil, err
	}

	if !call.WantResponse() {
		c.pool.Release(conn)
		return nil, nil, nil
	}

	resp, err := conn.RecvMessage()
	if err != nil {
		c.pool.Discard(conn)
		return nil, nil, err
	}

	switch resp.Type {
	case MsgReturn:
		c.pool.Release(conn)
		return resp.Payload, nil, nil
	case MsgRaise:
		c.pool.Release(conn)
		desc, _ := resp.Payload.(string)
		return nil, nil, &RemoteError{Description: desc}
	case MsgStop:
		// An empty stream: the generator owns conn but is immediately
		// exhausted, so release right away.
		gen := newResultGenerator(c.pool, conn)
		gen.finish(false)
		return nil, gen, nil
	case MsgYield:
		// Streaming result: the generator owns conn from here on, replaying
		// the first yield we already read off the wire.
		return nil, newResultGeneratorWithFirst(c.pool, conn, resp.Payload), nil
	default:
		c.pool.Discard(conn)
		return nil, nil, NewError(KindProtocol, "unexpected response message type", nil)
	}
}
