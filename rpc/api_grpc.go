package rpc

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
	emptypb "google.golang.org/protobuf/types/known/emptypb"
	structpb "google.golang.org/protobuf/types/known/structpb"
	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
	wrapperspb "google.golang.org/protobuf/types/known/wrapperspb"
)

// Bindings for the API service in rpc.proto, laid out the way
// protoc-gen-go-grpc would write them.

const (
	API_GetVersion_FullMethodName       = "/stoplight.API/GetVersion"
	API_Shutdown_FullMethodName         = "/stoplight.API/Shutdown"
	API_ListLights_FullMethodName       = "/stoplight.API/ListLights"
	API_GetPhase_FullMethodName         = "/stoplight.API/GetPhase"
	API_WaitForPhase_FullMethodName     = "/stoplight.API/WaitForPhase"
	API_WatchTransitions_FullMethodName = "/stoplight.API/WatchTransitions"
)

type APIClient interface {
	GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListLights(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetPhase(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	WaitForPhase(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*timestamppb.Timestamp, error)
	WatchTransitions(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (API_WatchTransitionsClient, error)
}

type aPIClient struct {
	cc grpc.ClientConnInterface
}

func NewAPIClient(cc grpc.ClientConnInterface) APIClient {
	return &aPIClient{cc}
}

func (c *aPIClient) GetVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, API_GetVersion_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aPIClient) Shutdown(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	err := c.cc.Invoke(ctx, API_Shutdown_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aPIClient) ListLights(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	err := c.cc.Invoke(ctx, API_ListLights_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aPIClient) GetPhase(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, API_GetPhase_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aPIClient) WaitForPhase(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*timestamppb.Timestamp, error) {
	out := new(timestamppb.Timestamp)
	err := c.cc.Invoke(ctx, API_WaitForPhase_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *aPIClient) WatchTransitions(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (API_WatchTransitionsClient, error) {
	stream, err := c.cc.NewStream(ctx, &API_ServiceDesc.Streams[0], API_WatchTransitions_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &aPIWatchTransitionsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type API_WatchTransitionsClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type aPIWatchTransitionsClient struct {
	grpc.ClientStream
}

func (x *aPIWatchTransitionsClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// APIServer is the server API for API service.
// All implementations must embed UnimplementedAPIServer
// for forward compatibility
type APIServer interface {
	GetVersion(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	ListLights(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetPhase(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	WaitForPhase(context.Context, *structpb.Struct) (*timestamppb.Timestamp, error)
	WatchTransitions(*wrapperspb.StringValue, API_WatchTransitionsServer) error
	mustEmbedUnimplementedAPIServer()
}

// UnimplementedAPIServer must be embedded to have forward compatible implementations.
type UnimplementedAPIServer struct {
}

func (UnimplementedAPIServer) GetVersion(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetVersion not implemented")
}
func (UnimplementedAPIServer) Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Shutdown not implemented")
}
func (UnimplementedAPIServer) ListLights(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLights not implemented")
}
func (UnimplementedAPIServer) GetPhase(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPhase not implemented")
}
func (UnimplementedAPIServer) WaitForPhase(context.Context, *structpb.Struct) (*timestamppb.Timestamp, error) {
	return nil, status.Errorf(codes.Unimplemented, "method WaitForPhase not implemented")
}
func (UnimplementedAPIServer) WatchTransitions(*wrapperspb.StringValue, API_WatchTransitionsServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchTransitions not implemented")
}
func (UnimplementedAPIServer) mustEmbedUnimplementedAPIServer() {}

func RegisterAPIServer(s grpc.ServiceRegistrar, srv APIServer) {
	s.RegisterService(&API_ServiceDesc, srv)
}

func _API_GetVersion_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(APIServer).GetVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: API_GetVersion_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(APIServer).GetVersion(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _API_Shutdown_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(APIServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: API_Shutdown_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(APIServer).Shutdown(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _API_ListLights_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(APIServer).ListLights(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: API_ListLights_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(APIServer).ListLights(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _API_GetPhase_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(APIServer).GetPhase(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: API_GetPhase_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(APIServer).GetPhase(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _API_WaitForPhase_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(APIServer).WaitForPhase(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: API_WaitForPhase_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(APIServer).WaitForPhase(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _API_WatchTransitions_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(APIServer).WatchTransitions(m, &aPIWatchTransitionsServer{stream})
}

type API_WatchTransitionsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type aPIWatchTransitionsServer struct {
	grpc.ServerStream
}

func (x *aPIWatchTransitionsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

// API_ServiceDesc is the grpc.ServiceDesc for API service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var API_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "stoplight.API",
	HandlerType: (*APIServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetVersion",
			Handler:    _API_GetVersion_Handler,
		},
		{
			MethodName: "Shutdown",
			Handler:    _API_Shutdown_Handler,
		},
		{
			MethodName: "ListLights",
			Handler:    _API_ListLights_Handler,
		},
		{
			MethodName: "GetPhase",
			Handler:    _API_GetPhase_Handler,
		},
		{
			MethodName: "WaitForPhase",
			Handler:    _API_WaitForPhase_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchTransitions",
			Handler:       _API_WatchTransitions_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "rpc.proto",
}
