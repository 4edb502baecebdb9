package api

import (
	"context"

	"google.golang.org/grpc"
)

// MirrorClient calls the Mirror service using the JSON codec.
type MirrorClient struct {
	cc grpc.ClientConnInterface
}

// NewMirrorClient wraps a client connection.
func NewMirrorClient(cc grpc.ClientConnInterface) *MirrorClient { return &MirrorClient{cc: cc} }

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MirrorClient) RegisterInstance(ctx context.Context, in *RegisterInstanceRequest, opts ...grpc.CallOption) (*InstanceResponse, error) {
	return invoke[RegisterInstanceRequest, InstanceResponse](ctx, c.cc, MethodRegisterInstance, in, opts)
}

func (c *MirrorClient) ListInstances(ctx context.Context, in *ListInstancesRequest, opts ...grpc.CallOption) (*ListInstancesResponse, error) {
	return invoke[ListInstancesRequest, ListInstancesResponse](ctx, c.cc, MethodListInstances, in, opts)
}

func (c *MirrorClient) SetFilterTags(ctx context.Context, in *SetFilterTagsRequest, opts ...grpc.CallOption) (*SetFilterTagsResponse, error) {
	return invoke[SetFilterTagsRequest, SetFilterTagsResponse](ctx, c.cc, MethodSetFilterTags, in, opts)
}

func (c *MirrorClient) ProbeInstance(ctx context.Context, in *ProbeInstanceRequest, opts ...grpc.CallOption) (*ProbeInstanceResponse, error) {
	return invoke[ProbeInstanceRequest, ProbeInstanceResponse](ctx, c.cc, MethodProbeInstance, in, opts)
}

func (c *MirrorClient) SyncDocuments(ctx context.Context, in *SyncDocumentsRequest, opts ...grpc.CallOption) (*SyncDocumentsResponse, error) {
	return invoke[SyncDocumentsRequest, SyncDocumentsResponse](ctx, c.cc, MethodSyncDocuments, in, opts)
}

func (c *MirrorClient) ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryRequest, ListHistoryResponse](ctx, c.cc, MethodListHistory, in, opts)
}

func (c *MirrorClient) SubmitResult(ctx context.Context, in *SubmitResultRequest, opts ...grpc.CallOption) (*SubmitResultResponse, error) {
	return invoke[SubmitResultRequest, SubmitResultResponse](ctx, c.cc, MethodSubmitResult, in, opts)
}

func (c *MirrorClient) GetResult(ctx context.Context, in *GetResultRequest, opts ...grpc.CallOption) (*GetResultResponse, error) {
	return invoke[GetResultRequest, GetResultResponse](ctx, c.cc, MethodGetResult, in, opts)
}
