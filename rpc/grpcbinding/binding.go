package grpcbinding

import (
	"context"
	"net"
	"net/url"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/Montana/dirt/rpc"
)

// edgeDispatcher adapts *rpc.Edge to this package's dispatcher interface.
type edgeDispatcher struct{ edge *rpc.Edge }

func (d edgeDispatcher) DispatchCall(name string, args []any, kwargs map[string]any, peer string) (any, []any, bool, error) {
	return d.edge.DispatchCall(name, args, kwargs, peer)
}

// ServerBinding is the grpc scheme's rpc.ServerBinding.
type ServerBinding struct{}

func (ServerBinding) Listen(edge *rpc.Edge, bindURL string, logger rpc.Logger) (rpc.Closer, error) {
	u, err := url.Parse(bindURL)
	if err != nil {
		return nil, rpc.NewError(rpc.KindConfiguration, "invalid bind URL "+bindURL, err)
	}
	lis, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, rpc.NewError(rpc.KindTransport, "listen "+u.Host, err)
	}
	srv := grpc.NewServer(grpc.ForceServerCodec(codec))
	srv.RegisterService(&serviceDesc, &grpcBindingServer{edge: edgeDispatcher{edge: edge}})
	go func() { _ = srv.Serve(lis) }()
	return grpcServerCloser{srv: srv}, nil
}

type grpcServerCloser struct {
	srv *grpc.Server
}

func (c grpcServerCloser) Close() error {
	c.srv.GracefulStop()
	return nil
}

// caller is this binding's rpc.Caller: a thin wrapper over one grpc
// ClientConn. It does not participate in rpc's Pool (grpc manages its own
// connection/channel lifecycle internally), so each Call is one grpc
// unary Invoke.
type caller struct {
	cc *grpc.ClientConn
}

func (c *caller) Call(call *rpc.Call) (any, *rpc.ResultGenerator, error) {
	req := &callRequest{Name: call.Name, Args: call.Args, Kwargs: call.Kwargs}
	resp := new(callResponse)

	ctx := context.Background()
	if err := c.cc.Invoke(ctx, "/dirt.GRPCBinding/Call", req, resp); err != nil {
		return nil, nil, rpc.NewError(rpc.KindTransport, "grpc invoke", err)
	}
	if resp.HasError {
		return nil, nil, &rpc.RemoteError{Description: resp.ErrorDescription}
	}
	if resp.IsSequence {
		return nil, rpc.NewInMemoryResultGenerator(resp.Values), nil
	}
	return resp.Value, nil, nil
}

// ClientBinding is the grpc scheme's rpc.ClientBinding.
type ClientBinding struct{}

func (ClientBinding) Dial(remoteURL string, dialTimeout time.Duration) (rpc.Caller, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, rpc.NewError(rpc.KindConfiguration, "invalid remote URL "+remoteURL, err)
	}
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	cc, err := grpc.DialContext(ctx, u.Host,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec)),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, rpc.NewError(rpc.KindTransport, "grpc dial "+u.Host, err)
	}
	return &caller{cc: cc}, nil
}

// Register installs the grpc scheme's bindings into reg.
func Register(reg *rpc.Registry) {
	reg.Register("grpc", ServerBinding{}, ClientBinding{})
}
