// Package grpcbinding is the drop-in alternative protocol binding §4.7
// calls for: it wraps google.golang.org/grpc instead of the native
// dirtrpc wire protocol, registered under the "grpc" scheme. Because
// this repo ships no protoc-generated stubs, it skips protobuf message
// types entirely and registers a custom grpc codec that reuses the
// project's own msgpack encoding (rpc.DefaultCodec's library, applied to
// plain structs) via grpc.ForceServerCodec/grpc.ForceCodec — a
// documented technique for running grpc without .proto-generated code.
//
// Per §9's resolution of the base spec's third open question, this
// binding does not support true streaming: a call whose method returns a
// Sequence is drained server-side into a slice and returned as one
// value. Conforming implementations of this binding should add real
// streaming (grpc supports server-streaming RPCs natively); this repo
// documents the limitation rather than adding it, to keep one binding
// genuinely minimal against the other's full feature set.
package grpcbinding

import (
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackGRPCCodec implements grpc's encoding.Codec, marshalling whatever
// Go value grpc hands it (always *callRequest or *callResponse here) with
// msgpack instead of protobuf.
type msgpackGRPCCodec struct{}

func (msgpackGRPCCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackGRPCCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (msgpackGRPCCodec) Name() string { return "dirt-msgpack" }

var codec = msgpackGRPCCodec{}
