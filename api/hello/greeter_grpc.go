package hello

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Greeter_ServiceName              = "hello.Greeter"
	Greeter_SayHello_FullMethodName  = "/hello.Greeter/SayHello"
	Greeter_Add_FullMethodName       = "/hello.Greeter/Add"
	Greeter_ListCalls_FullMethodName = "/hello.Greeter/ListCalls"
)

// GreeterClient - клиент сервиса Greeter
type GreeterClient interface {
	SayHello(ctx context.Context, in *HelloRequest, opts ...grpc.CallOption) (*HelloReply, error)
	Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*AddReply, error)
	ListCalls(ctx context.Context, in *ListCallsRequest, opts ...grpc.CallOption) (*ListCallsReply, error)
}

type greeterClient struct {
	cc grpc.ClientConnInterface
}

func NewGreeterClient(cc grpc.ClientConnInterface) GreeterClient {
	return &greeterClient{cc}
}

// callOptions всегда выбирает json кодек, остальные опции идут после
func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *greeterClient) SayHello(ctx context.Context, in *HelloRequest, opts ...grpc.CallOption) (*HelloReply, error) {
	out := new(HelloReply)
	if err := c.cc.Invoke(ctx, Greeter_SayHello_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *greeterClient) Add(ctx context.Context, in *AddRequest, opts ...grpc.CallOption) (*AddReply, error) {
	out := new(AddReply)
	if err := c.cc.Invoke(ctx, Greeter_Add_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *greeterClient) ListCalls(ctx context.Context, in *ListCallsRequest, opts ...grpc.CallOption) (*ListCallsReply, error) {
	out := new(ListCallsReply)
	if err := c.cc.Invoke(ctx, Greeter_ListCalls_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// GreeterServer - серверная часть сервиса Greeter
type GreeterServer interface {
	SayHello(context.Context, *HelloRequest) (*HelloReply, error)
	Add(context.Context, *AddRequest) (*AddReply, error)
	ListCalls(context.Context, *ListCallsRequest) (*ListCallsReply, error)
}

// UnimplementedGreeterServer встраивается в реализации для совместимости
type UnimplementedGreeterServer struct{}

func (UnimplementedGreeterServer) SayHello(context.Context, *HelloRequest) (*HelloReply, error) {
	return nil, status.Error(codes.Unimplemented, "method SayHello not implemented")
}

func (UnimplementedGreeterServer) Add(context.Context, *AddRequest) (*AddReply, error) {
	return nil, status.Error(codes.Unimplemented, "method Add not implemented")
}

func (UnimplementedGreeterServer) ListCalls(context.Context, *ListCallsRequest) (*ListCallsReply, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCalls not implemented")
}

func RegisterGreeterServer(s grpc.ServiceRegistrar, srv GreeterServer) {
	s.RegisterService(&Greeter_ServiceDesc, srv)
}

func _Greeter_SayHello_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HelloRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GreeterServer).SayHello(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Greeter_SayHello_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GreeterServer).SayHello(ctx, req.(*HelloRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Greeter_Add_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GreeterServer).Add(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Greeter_Add_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GreeterServer).Add(ctx, req.(*AddRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Greeter_ListCalls_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListCallsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GreeterServer).ListCalls(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Greeter_ListCalls_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GreeterServer).ListCalls(ctx, req.(*ListCallsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Greeter_ServiceDesc - описание сервиса для grpc.ServiceRegistrar
var Greeter_ServiceDesc = grpc.ServiceDesc{
	ServiceName: Greeter_ServiceName,
	HandlerType: (*GreeterServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SayHello",
			Handler:    _Greeter_SayHello_Handler,
		},
		{
			MethodName: "Add",
			Handler:    _Greeter_Add_Handler,
		},
		{
			MethodName: "ListCalls",
			Handler:    _Greeter_ListCalls_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hello/greeter",
}
