package rpc

// MessageType enumerates the wire message tags (§3).
type MessageType string

const (
	MsgCall       MessageType = "call"
	MsgCallIgnore MessageType = "call_ignore"
	MsgReturn     MessageType = "return"
	MsgRaise      MessageType = "raise"
	MsgYield      MessageType = "yield"
	MsgStop       MessageType = "stop"
)

// Message is the tagged tuple (type, payload) framed over the wire.
//
// For MsgCall/MsgCallIgnore, Payload is a *CallPayload. For MsgReturn,
// MsgYield and MsgRaise, Payload is a single opaque value. MsgStop carries
// no payload.
type Message struct {
	Type    MessageType
	Payload any
}

// CallPayload is the payload shape of a call/call_ignore message.
type CallPayload struct {
	Name   string
	Args   []any
	Kwargs map[string]any
}
