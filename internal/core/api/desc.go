package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "spellcore.v1.Lookup"

// Payloads are google.protobuf.Struct documents; the field layout of each
// method is described on the LookupService method that serves it.
type LookupServer interface {
	Check(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decompose(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BreakWord(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type lookupMethod func(LookupServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a LookupServer method to grpc.MethodHandler.
func unaryHandler(name string, call lookupMethod) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LookupServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(LookupServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LookupServiceDesc describes spellcore.v1.Lookup for grpc.Server.
var LookupServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LookupServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Check", Handler: unaryHandler("Check", LookupServer.Check)},
		{MethodName: "Decompose", Handler: unaryHandler("Decompose", LookupServer.Decompose)},
		{MethodName: "BreakWord", Handler: unaryHandler("BreakWord", LookupServer.BreakWord)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spellcore/v1/lookup.proto",
}

// RegisterLookupServer registers srv on s.
func RegisterLookupServer(s grpc.ServiceRegistrar, srv LookupServer) {
	s.RegisterService(&LookupServiceDesc, srv)
}

// LookupClient calls spellcore.v1.Lookup over a client connection.
type LookupClient struct {
	cc grpc.ClientConnInterface
}

// NewLookupClient wraps cc.
func NewLookupClient(cc grpc.ClientConnInterface) *LookupClient {
	return &LookupClient{cc: cc}
}

func (c *LookupClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Check calls Lookup.Check.
func (c *LookupClient) Check(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Check", in, opts...)
}

// Decompose calls Lookup.Decompose.
func (c *LookupClient) Decompose(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Decompose", in, opts...)
}

// BreakWord calls Lookup.BreakWord.
func (c *LookupClient) BreakWord(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "BreakWord", in, opts...)
}
