package rpc

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns a Message into an opaque blob and back. It is orthogonal to
// framing (frame.go) and must be reversible. A single default codec is
// fixed project-wide (§4.1) so two peers without prior negotiation
// interoperate; DefaultCodec is that codec.
type Codec interface {
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte) (*Message, error)
}

// wireTuple is the on-the-wire shape of a Message: a 2-element array
// (type, payload), matching §3's "tagged tuple". call/call_ignore payloads
// are further encoded as a 3-element array (name, args, kwargs).
type wireTuple struct {
	_msgpack struct{} `msgpack:",as_array"`
	Type     MessageType
	Payload  msgpack.RawMessage
}

type wireCallPayload struct {
	_msgpack struct{} `msgpack:",as_array"`
	Name     string
	Args     []any
	Kwargs   map[string]any
}

// MsgpackCodec encodes messages with vmihailenco/msgpack/v5, the project's
// fixed default codec (grounded via the original dirt framework's
// zerorpc/msgpack lineage).
type MsgpackCodec struct{}

// DefaultCodec is the codec every native dirtrpc peer uses.
var DefaultCodec Codec = MsgpackCodec{}

func (MsgpackCodec) Encode(msg *Message) ([]byte, error) {
	var payload any = msg.Payload
	if msg.Type == MsgCall || msg.Type == MsgCallIgnore {
		if cp, ok := msg.Payload.(*CallPayload); ok {
			payload = wireCallPayload{Name: cp.Name, Args: cp.Args, Kwargs: cp.Kwargs}
		}
	}
	rawPayload, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, NewError(KindTransport, "encode payload", err)
	}
	out, err := msgpack.Marshal(wireTuple{Type: msg.Type, Payload: rawPayload})
	if err != nil {
		return nil, NewError(KindTransport, "encode message", err)
	}
	return out, nil
}

func (MsgpackCodec) Decode(data []byte) (*Message, error) {
	var tup wireTuple
	if err := msgpack.Unmarshal(data, &tup); err != nil {
		return nil, NewError(KindTransport, "decode message", err)
	}

	msg := &Message{Type: tup.Type}
	switch tup.Type {
	case MsgStop:
		return msg, nil
	case MsgCall, MsgCallIgnore:
		var cp wireCallPayload
		if err := msgpack.Unmarshal(tup.Payload, &cp); err != nil {
			return nil, NewError(KindProtocol, "decode call payload", err)
		}
		msg.Payload = &CallPayload{Name: cp.Name, Args: cp.Args, Kwargs: cp.Kwargs}
		return msg, nil
	default:
		var payload any
		if err := msgpack.Unmarshal(tup.Payload, &payload); err != nil {
			return nil, NewError(KindProtocol, "decode payload", err)
		}
		msg.Payload = payload
		return msg, nil
	}
}
