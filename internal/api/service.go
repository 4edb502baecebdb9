package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "paperlessmirror.v1.Mirror"

// Method names.
const (
	MethodRegisterInstance = "RegisterInstance"
	MethodListInstances    = "ListInstances"
	MethodSetFilterTags    = "SetFilterTags"
	MethodProbeInstance    = "ProbeInstance"
	MethodSyncDocuments    = "SyncDocuments"
	MethodListHistory      = "ListHistory"
	MethodSubmitResult     = "SubmitResult"
	MethodGetResult        = "GetResult"
)

// FullMethod returns "/<service>/<method>".
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// MirrorServer is the server API of the Mirror service.
type MirrorServer interface {
	RegisterInstance(context.Context, *RegisterInstanceRequest) (*InstanceResponse, error)
	ListInstances(context.Context, *ListInstancesRequest) (*ListInstancesResponse, error)
	SetFilterTags(context.Context, *SetFilterTagsRequest) (*SetFilterTagsResponse, error)
	ProbeInstance(context.Context, *ProbeInstanceRequest) (*ProbeInstanceResponse, error)
	SyncDocuments(context.Context, *SyncDocumentsRequest) (*SyncDocumentsResponse, error)
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
	SubmitResult(context.Context, *SubmitResultRequest) (*SubmitResultResponse, error)
	GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error)
}

// UnimplementedMirrorServer returns Unimplemented for every method.
type UnimplementedMirrorServer struct{}

func (UnimplementedMirrorServer) RegisterInstance(context.Context, *RegisterInstanceRequest) (*InstanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterInstance not implemented")
}
func (UnimplementedMirrorServer) ListInstances(context.Context, *ListInstancesRequest) (*ListInstancesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListInstances not implemented")
}
func (UnimplementedMirrorServer) SetFilterTags(context.Context, *SetFilterTagsRequest) (*SetFilterTagsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFilterTags not implemented")
}
func (UnimplementedMirrorServer) ProbeInstance(context.Context, *ProbeInstanceRequest) (*ProbeInstanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProbeInstance not implemented")
}
func (UnimplementedMirrorServer) SyncDocuments(context.Context, *SyncDocumentsRequest) (*SyncDocumentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SyncDocuments not implemented")
}
func (UnimplementedMirrorServer) ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListHistory not implemented")
}
func (UnimplementedMirrorServer) SubmitResult(context.Context, *SubmitResultRequest) (*SubmitResultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitResult not implemented")
}
func (UnimplementedMirrorServer) GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetResult not implemented")
}

// unary builds a MethodDesc that decodes Req and dispatches through the interceptor chain.
func unary[Req, Resp any](method string, call func(MirrorServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MirrorServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MirrorServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// MirrorServiceDesc describes the Mirror service for grpc.Server.RegisterService.
var MirrorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MirrorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegisterInstance, MirrorServer.RegisterInstance),
		unary(MethodListInstances, MirrorServer.ListInstances),
		unary(MethodSetFilterTags, MirrorServer.SetFilterTags),
		unary(MethodProbeInstance, MirrorServer.ProbeInstance),
		unary(MethodSyncDocuments, MirrorServer.SyncDocuments),
		unary(MethodListHistory, MirrorServer.ListHistory),
		unary(MethodSubmitResult, MirrorServer.SubmitResult),
		unary(MethodGetResult, MirrorServer.GetResult),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "paperlessmirror/v1/mirror.json",
}

// RegisterMirrorServer registers srv on s.
func RegisterMirrorServer(s grpc.ServiceRegistrar, srv MirrorServer) {
	s.RegisterService(&MirrorServiceDesc, srv)
}
