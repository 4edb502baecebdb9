package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/limiter"
	"github.com/and161185/paperless-mirror/internal/mirror"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/repository"
)

// History listing bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Syncer runs one sync of a remote source into the mirror.
type Syncer interface {
	Sync(ctx context.Context, src mirror.RemoteDocumentSource, inst model.Instance) (model.SyncSummary, error)
}

var _ Syncer = (*mirror.Engine)(nil)

// SyncService triggers sync runs and reports their history.
type SyncService interface {
	// Sync mirrors the remote corpus of an instance.
	Sync(ctx context.Context, instanceID uuid.UUID) (model.SyncSummary, error)
	// History returns the most recent runs, newest first.
	History(ctx context.Context, instanceID uuid.UUID, limit int) ([]model.ImportHistory, error)
}

type SyncServiceImpl struct {
	instances InstanceService
	engine    Syncer
	history   repository.HistoryRepository
	tagNames  repository.TagNameRepository
	remotes   RemoteFactory
	lim       limiter.Limiter
	log       *zap.Logger
}

// NewSyncService constructs SyncService. A nil limiter never blocks.
// remotes should not bound individual page requests.
func NewSyncService(
	instances InstanceService,
	engine Syncer,
	history repository.HistoryRepository,
	tagNames repository.TagNameRepository,
	remotes RemoteFactory,
	lim limiter.Limiter,
	log *zap.Logger,
) *SyncServiceImpl {
	if lim == nil {
		lim = limiter.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncServiceImpl{
		instances: instances, engine: engine, history: history,
		tagNames: tagNames, remotes: remotes, lim: lim, log: log,
	}
}

// Sync resolves the instance and runs the engine against its remote.
// Instances that keep failing are blocked for a while. After a successful run
// the tag catalog names are recorded; failures there are only logged.
func (s *SyncServiceImpl) Sync(ctx context.Context, instanceID uuid.UUID) (model.SyncSummary, error) {
	inst, err := s.instances.Get(ctx, instanceID)
	if err != nil {
		return model.SyncSummary{}, err
	}

	allowed, retry, err := s.lim.Allow(ctx, instanceID)
	if err != nil {
		return model.SyncSummary{}, err
	}
	if !allowed {
		return model.SyncSummary{}, fmt.Errorf("%w: retry in %s", errs.ErrRateLimited, retry.Round(time.Second))
	}

	remote := s.remotes(inst)
	sum, err := s.engine.Sync(ctx, remote, inst)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			if blocked, dur, ferr := s.lim.Failure(ctx, instanceID); ferr == nil && blocked {
				s.log.Warn("sync blocked after repeated failures",
					zap.String("instance", instanceID.String()), zap.Duration("for", dur))
			}
		}
		return model.SyncSummary{}, err
	}
	if err := s.lim.Success(ctx, instanceID); err != nil {
		s.log.Warn("reset sync limiter", zap.String("instance", instanceID.String()), zap.Error(err))
	}
	s.rememberTagNames(ctx, inst.ID, remote)
	return sum, nil
}

func (s *SyncServiceImpl) rememberTagNames(ctx context.Context, instanceID uuid.UUID, remote Remote) {
	tags, err := remote.FetchTagCatalog(ctx)
	if err == nil {
		err = s.tagNames.Remember(ctx, instanceID, tags)
	}
	if err != nil {
		s.log.Warn("record tag names", zap.String("instance", instanceID.String()), zap.Error(err))
	}
}

// History lists recent runs. limit <= 0 selects the default; larger values are capped.
func (s *SyncServiceImpl) History(ctx context.Context, instanceID uuid.UUID, limit int) ([]model.ImportHistory, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.history.List(ctx, instanceID, limit)
}
