package rpc

import (
	"errors"
	"fmt"
	"net"
)

// Server accepts connections and hands each to an independent handler
// (§4.5). It never retains state between calls on one socket; multiple
// calls may be multiplexed sequentially over one connection, never
// concurrently.
type Server struct {
	Edge     *Edge
	Logger   Logger
	listener net.Listener
}

// NewServer builds a server fronting edge.
func NewServer(edge *Edge, logger Logger) *Server {
	if logger == nil {
		logger = StdLogger{}
	}
	return &Server{Edge: edge, Logger: logger}
}

// Listen binds addr and serves until Close is called. Grounded in the
// teacher's RPCServer.Listen (infra/network/rpc.go), generalised from a
// single global coordinator map to the edge's reflective dispatch.
func (s *Server) Listen(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return NewError(KindTransport, "listen "+addr, err)
	}
	s.listener = lis
	for {
		conn, err := lis.Accept()
		if err != nil {
			if isClosedErr(err) {
				return nil
			}
			return NewError(KindTransport, "accept", err)
		}
		go s.handleConnection(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConnection(netConn net.Conn) {
	cxn := NewConnection(netConn, DefaultCodec)
	cxn.PeerAddr = netConn.RemoteAddr().String()
	defer cxn.Disconnect()

	s.Logger.Printf("dirtrpc: conn %d accepted from %s", cxn.ID, cxn.PeerAddr)
	for {
		msg, err := cxn.RecvMessage()
		if err != nil {
			return // peer closed or transport fault; connection already torn down
		}

		switch msg.Type {
		case MsgCall, MsgCallIgnore:
			s.handleCall(cxn, msg)
		default:
			s.Logger.Warnf("dirtrpc: unexpected message type %s from %s", msg.Type, cxn.PeerAddr)
			return
		}
	}
}

func (s *Server) handleCall(cxn *Connection, msg *Message) {
	payload, ok := msg.Payload.(*CallPayload)
	if !ok {
		s.Logger.Warnf("dirtrpc: malformed call payload from %s", cxn.PeerAddr)
		return
	}

	wantResponse := msg.Type == MsgCall
	call, err := NewCall(payload.Name, payload.Args, payload.Kwargs, map[Flag]bool{
		FlagWantResponse: wantResponse,
	})
	if err != nil {
		if wantResponse {
			_ = cxn.SendMessage(&Message{Type: MsgRaise, Payload: err.Error()})
		}
		return
	}

	value, seq, derr := s.Edge.Dispatch(call, cxn.PeerAddr)

	if !wantResponse {
		return
	}

	if derr != nil {
		_ = cxn.SendMessage(&Message{Type: MsgRaise, Payload: describeError(derr)})
		return
	}

	if seq != nil {
		for {
			v, ok, err := seq.Next()
			if err != nil {
				_ = cxn.SendMessage(&Message{Type: MsgRaise, Payload: describeError(err)})
				return
			}
			if !ok {
				_ = cxn.SendMessage(&Message{Type: MsgStop})
				return
			}
			if err := cxn.SendMessage(&Message{Type: MsgYield, Payload: v}); err != nil {
				return // transport fault aborts the connection
			}
		}
	}

	_ = cxn.SendMessage(&Message{Type: MsgReturn, Payload: value})
}

// describeError produces the stable, human-readable textual encoding of an
// error sent in a "raise" message (§4.5 step 3, §7 "string form is not
// parsed").
func describeError(err error) string {
	return fmt.Sprintf("%v", err)
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
