package grpcbinding

import (
	"context"

	"google.golang.org/grpc"
)

// callRequest/callResponse stand in for protoc-generated message types; the
// custom codec (codec.go) marshals them directly with msgpack.
type callRequest struct {
	Name   string
	Args   []any
	Kwargs map[string]any
}

type callResponse struct {
	// Exactly one of Value/Values/ErrorDescription is set.
	Value           any
	Values          []any // set when the dispatched method returned a Sequence (drained, see package doc)
	IsSequence      bool
	ErrorDescription string
	HasError        bool
}

// dispatcher is satisfied by *rpc.Edge; declared locally to avoid an import
// cycle between rpc and rpc/grpcbinding.
type dispatcher interface {
	DispatchCall(name string, args []any, kwargs map[string]any, peerAddr string) (value any, values []any, isSequence bool, err error)
}

type grpcBindingServer struct {
	edge dispatcher
}

func callHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(callRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		r := req.(*callRequest)
		s := srv.(*grpcBindingServer)

		peer := ""
		value, values, isSeq, err := s.edge.DispatchCall(r.Name, r.Args, r.Kwargs, peer)
		if err != nil {
			return &callResponse{HasError: true, ErrorDescription: err.Error()}, nil
		}
		return &callResponse{Value: value, Values: values, IsSequence: isSeq}, nil
	}
	if interceptor == nil {
		return handler(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/dirt.GRPCBinding/Call"}
	return interceptor(ctx, req, info, handler)
}

// serviceDesc is the hand-written equivalent of a protoc-generated
// *_grpc.pb.go ServiceDesc for a single unary method.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: "dirt.GRPCBinding",
	HandlerType: (*grpcBindingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: callHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dirtrpc/grpcbinding.proto",
}
