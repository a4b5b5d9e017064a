package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProjectionServiceName is the fully qualified gRPC service name
const ProjectionServiceName = "compound.v1.ProjectionService"

const (
	MethodCalculate        = "/" + ProjectionServiceName + "/Calculate"
	MethodTimeToGoal       = "/" + ProjectionServiceName + "/TimeToGoal"
	MethodGetPreferences   = "/" + ProjectionServiceName + "/GetPreferences"
	MethodSavePreferences  = "/" + ProjectionServiceName + "/SavePreferences"
	MethodResetPreferences = "/" + ProjectionServiceName + "/ResetPreferences"
)

// ProjectionServiceServer is the server API for the projection service.
// Messages are google.protobuf.Struct values carrying the dto JSON shapes.
type ProjectionServiceServer interface {
	Calculate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TimeToGoal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPreferences(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SavePreferences(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPreferences(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv ProjectionServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProjectionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProjectionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ProjectionServiceDesc describes the projection service for grpc.Server.RegisterService
var ProjectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ProjectionServiceName,
	HandlerType: (*ProjectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    unaryHandler(MethodCalculate, ProjectionServiceServer.Calculate),
		},
		{
			MethodName: "TimeToGoal",
			Handler:    unaryHandler(MethodTimeToGoal, ProjectionServiceServer.TimeToGoal),
		},
		{
			MethodName: "GetPreferences",
			Handler:    unaryHandler(MethodGetPreferences, ProjectionServiceServer.GetPreferences),
		},
		{
			MethodName: "SavePreferences",
			Handler:    unaryHandler(MethodSavePreferences, ProjectionServiceServer.SavePreferences),
		},
		{
			MethodName: "ResetPreferences",
			Handler:    unaryHandler(MethodResetPreferences, ProjectionServiceServer.ResetPreferences),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "compound/v1/projection.proto",
}

// RegisterProjectionServiceServer registers srv on s
func RegisterProjectionServiceServer(s grpc.ServiceRegistrar, srv ProjectionServiceServer) {
	s.RegisterService(&ProjectionServiceDesc, srv)
}

// ProjectionServiceClient is the client API for the projection service
type ProjectionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProjectionServiceClient creates a client on top of an existing connection
func NewProjectionServiceClient(cc grpc.ClientConnInterface) *ProjectionServiceClient {
	return &ProjectionServiceClient{cc: cc}
}

func (c *ProjectionServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProjectionServiceClient) Calculate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCalculate, in, opts...)
}

func (c *ProjectionServiceClient) TimeToGoal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodTimeToGoal, in, opts...)
}

func (c *ProjectionServiceClient) GetPreferences(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetPreferences, in, opts...)
}

func (c *ProjectionServiceClient) SavePreferences(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSavePreferences, in, opts...)
}

func (c *ProjectionServiceClient) ResetPreferences(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodResetPreferences, in, opts...)
}

// EncodeMessage converts a dto value into a Struct message
func EncodeMessage(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return out, nil
}

// DecodeMessage fills v from a Struct message
func DecodeMessage(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}
