package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/reconcile"
	"github.com/and161185/paperless-mirror/internal/repository"
)

// SuggestionService stores AI processing results and serves them reconciled.
type SuggestionService interface {
	// Submit stores a new result for a mirrored document.
	Submit(ctx context.Context, documentID uuid.UUID, changes model.Changes) (model.ProcessingResult, error)
	// Get returns the latest result with tag suggestions resolved against the live catalog.
	Get(ctx context.Context, documentID uuid.UUID) (model.ReconciledResult, error)
}

type SuggestionServiceImpl struct {
	docs      repository.DocumentRepository
	results   repository.ResultRepository
	tagNames  repository.TagNameRepository
	instances InstanceService
	remotes   RemoteFactory
	log       *zap.Logger
	now       func() time.Time
}

// NewSuggestionService constructs SuggestionService with required dependencies.
func NewSuggestionService(
	docs repository.DocumentRepository,
	results repository.ResultRepository,
	tagNames repository.TagNameRepository,
	instances InstanceService,
	remotes RemoteFactory,
	log *zap.Logger,
) *SuggestionServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionServiceImpl{
		docs: docs, results: results, tagNames: tagNames,
		instances: instances, remotes: remotes, log: log, now: time.Now,
	}
}

// Submit stores changes as the newest result of a document.
func (s *SuggestionServiceImpl) Submit(ctx context.Context, documentID uuid.UUID, changes model.Changes) (model.ProcessingResult, error) {
	if _, err := s.docs.GetByID(ctx, documentID); err != nil {
		return model.ProcessingResult{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.ProcessingResult{}, err
	}
	res := model.ProcessingResult{ID: id, DocumentID: documentID, Changes: changes, CreatedAt: s.now().UTC()}
	if err := s.results.Save(ctx, &res); err != nil {
		return model.ProcessingResult{}, err
	}
	return res, nil
}

// Get loads the document and its latest result, fetches the live catalog and
// reconciles. A catalog failure aborts the request.
func (s *SuggestionServiceImpl) Get(ctx context.Context, documentID uuid.UUID) (model.ReconciledResult, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return model.ReconciledResult{}, err
	}
	res, err := s.results.GetLatest(ctx, documentID)
	if err != nil {
		return model.ReconciledResult{}, err
	}
	inst, err := s.instances.Get(ctx, doc.InstanceID)
	if err != nil {
		return model.ReconciledResult{}, err
	}

	tags, err := s.remotes(inst).FetchTagCatalog(ctx)
	if err != nil {
		return model.ReconciledResult{}, fmt.Errorf("fetch tag catalog: %w", err)
	}

	lastKnown := map[int]string{}
	if missing := missingFromCatalog(doc.TagIDs, tags); len(missing) > 0 {
		if lastKnown, err = s.tagNames.Lookup(ctx, inst.ID, missing); err != nil {
			s.log.Warn("lookup last-known tag names", zap.String("instance", inst.ID.String()), zap.Error(err))
			lastKnown = map[int]string{}
		}
	}

	return reconcile.Result(*res, doc.TagIDs, reconcile.NewCatalog(tags, lastKnown)), nil
}

func missingFromCatalog(ids []int, catalog []model.Tag) []int {
	known := make(map[int]struct{}, len(catalog))
	for _, t := range catalog {
		known[t.ID] = struct{}{}
	}
	var out []int
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
