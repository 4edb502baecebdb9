// Package grpcserver exposes the paperless-mirror gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/paperless-mirror/internal/api"
	"github.com/and161185/paperless-mirror/internal/convert"
	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/paperless"
	"github.com/and161185/paperless-mirror/internal/service"
)

// Server wires services into gRPC handlers.
type Server struct {
	api.UnimplementedMirrorServer
	instances   service.InstanceService
	sync        service.SyncService
	suggestions service.SuggestionService
}

var _ api.MirrorServer = (*Server)(nil)

// New constructs a gRPC server with injected services.
func New(instances service.InstanceService, sync service.SyncService, suggestions service.SuggestionService) *Server {
	return &Server{instances: instances, sync: sync, suggestions: suggestions}
}

// --- Instances ---

// RegisterInstance stores a new remote instance.
func (s *Server) RegisterInstance(ctx context.Context, req *api.RegisterInstanceRequest) (*api.InstanceResponse, error) {
	inst, err := s.instances.Register(ctx, req.Name, req.BaseURL, req.APIToken, req.ImportFilterTags)
	if err != nil {
		return nil, toStatus(err, "register instance")
	}
	return &api.InstanceResponse{Instance: convert.ToAPIInstance(inst)}, nil
}

// ListInstances returns all registered instances.
func (s *Server) ListInstances(ctx context.Context, _ *api.ListInstancesRequest) (*api.ListInstancesResponse, error) {
	list, err := s.instances.List(ctx)
	if err != nil {
		return nil, toStatus(err, "list instances")
	}
	return &api.ListInstancesResponse{Instances: convert.ToAPIInstances(list)}, nil
}

// SetFilterTags replaces the import filter of an instance.
func (s *Server) SetFilterTags(ctx context.Context, req *api.SetFilterTagsRequest) (*api.SetFilterTagsResponse, error) {
	id, err := convert.ParseID("instance_id", req.InstanceID)
	if err != nil {
		return nil, toStatus(err, "set filter tags")
	}
	if err := s.instances.SetFilterTags(ctx, id, req.Tags); err != nil {
		return nil, toStatus(err, "set filter tags")
	}
	return &api.SetFilterTagsResponse{}, nil
}

// ProbeInstance checks connectivity by fetching the live tag catalog.
func (s *Server) ProbeInstance(ctx context.Context, req *api.ProbeInstanceRequest) (*api.ProbeInstanceResponse, error) {
	id, err := convert.ParseID("instance_id", req.InstanceID)
	if err != nil {
		return nil, toStatus(err, "probe")
	}
	tags, err := s.instances.Probe(ctx, id)
	if err != nil {
		return nil, toStatus(err, "probe")
	}
	return &api.ProbeInstanceResponse{Tags: convert.ToAPITags(tags)}, nil
}

// --- Sync ---

// SyncDocuments runs one full sync of an instance.
func (s *Server) SyncDocuments(ctx context.Context, req *api.SyncDocumentsRequest) (*api.SyncDocumentsResponse, error) {
	id, err := convert.ParseID("instance_id", req.InstanceID)
	if err != nil {
		return nil, toStatus(err, "sync")
	}
	sum, err := s.sync.Sync(ctx, id)
	if err != nil {
		return nil, toStatus(err, "sync")
	}
	return convert.ToAPISummary(sum), nil
}

// ListHistory returns recent sync runs, newest first.
func (s *Server) ListHistory(ctx context.Context, req *api.ListHistoryRequest) (*api.ListHistoryResponse, error) {
	id, err := convert.ParseID("instance_id", req.InstanceID)
	if err != nil {
		return nil, toStatus(err, "list history")
	}
	runs, err := s.sync.History(ctx, id, req.Limit)
	if err != nil {
		return nil, toStatus(err, "list history")
	}
	return &api.ListHistoryResponse{Runs: convert.ToAPIHistory(runs)}, nil
}

// --- Results ---

// SubmitResult stores an AI changes payload for a mirrored document.
func (s *Server) SubmitResult(ctx context.Context, req *api.SubmitResultRequest) (*api.SubmitResultResponse, error) {
	docID, err := convert.ParseID("document_id", req.DocumentID)
	if err != nil {
		return nil, toStatus(err, "submit result")
	}
	changes, err := convert.FromAPIChanges(req.Changes)
	if err != nil {
		return nil, toStatus(err, "submit result")
	}
	res, err := s.suggestions.Submit(ctx, docID, changes)
	if err != nil {
		return nil, toStatus(err, "submit result")
	}
	return &api.SubmitResultResponse{ID: res.ID.String(), CreatedAt: res.CreatedAt}, nil
}

// GetResult returns the latest result with reconciled tag suggestions.
func (s *Server) GetResult(ctx context.Context, req *api.GetResultRequest) (*api.GetResultResponse, error) {
	docID, err := convert.ParseID("document_id", req.DocumentID)
	if err != nil {
		return nil, toStatus(err, "get result")
	}
	res, err := s.suggestions.Get(ctx, docID)
	if err != nil {
		return nil, toStatus(err, "get result")
	}
	out, err := convert.ToAPIResult(res)
	if err != nil {
		return nil, toStatus(err, "get result")
	}
	return out, nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(err error, op string) error {
	var perr *paperless.Error
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, errs.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, op+": canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, op+": deadline exceeded")
	case errors.As(err, &perr):
		return status.Errorf(codes.Unavailable, "%s: remote: %v", op, err)
	default:
		return status.Errorf(codes.Internal, "%s: %v", op, err)
	}
}
