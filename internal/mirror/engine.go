// Package mirror pulls the remote document corpus of an instance and diffs it into the local mirror.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/repository"
)

// DefaultPageSize is the page size requested from the remote listing.
const DefaultPageSize = 100

// RemoteDocumentSource lists documents of one remote instance.
type RemoteDocumentSource interface {
	// FetchDocuments returns page (1-based) of the listing and whether more pages exist.
	FetchDocuments(ctx context.Context, page, pageSize int) (model.DocumentPage, error)
}

// Engine runs document synchronization against explicit storage capabilities.
type Engine struct {
	docs     repository.DocumentRepository
	history  repository.HistoryRepository
	log      *zap.Logger
	pageSize int
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize overrides the remote page size.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithClock overrides the time source used for importedAt and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an Engine. A nil logger disables logging.
func NewEngine(docs repository.DocumentRepository, history repository.HistoryRepository, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{docs: docs, history: history, log: log, pageSize: DefaultPageSize, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sync mirrors the full remote corpus of inst into the local store.
// Any source or repository failure aborts the run before a history record is written.
func (e *Engine) Sync(ctx context.Context, src RemoteDocumentSource, inst model.Instance) (model.SyncSummary, error) {
	start := e.now()
	fetched, err := e.fetchAll(ctx, src)
	if err != nil {
		return model.SyncSummary{}, err
	}

	kept := FilterByTags(fetched, inst.ImportFilterTags)
	sum := model.SyncSummary{Total: len(kept), FilteredOut: len(fetched) - len(kept)}

	index, err := e.docs.Index(ctx, inst.ID)
	if err != nil {
		return model.SyncSummary{}, fmt.Errorf("load mirror index: %w", err)
	}

	for _, rd := range kept {
		entry, ok := index[rd.ID]
		if !ok {
			created, id, err := e.create(ctx, inst.ID, rd)
			if err != nil {
				return model.SyncSummary{}, err
			}
			if created {
				sum.Imported++
				index[rd.ID] = model.MirrorIndexEntry{LocalID: id, PaperlessModified: rd.Modified}
				continue
			}
			// a concurrent run inserted the row first
			existing, err := e.docs.FindByPaperlessID(ctx, inst.ID, rd.ID)
			if err != nil {
				return model.SyncSummary{}, fmt.Errorf("document %d: %w", rd.ID, err)
			}
			entry = model.MirrorIndexEntry{LocalID: existing.ID, PaperlessModified: existing.PaperlessModified}
		}

		if !NeedsUpdate(entry.PaperlessModified, rd.Modified) {
			sum.Unchanged++
			index[rd.ID] = entry
			continue
		}
		applied, err := e.docs.Update(ctx, toMirror(entry.LocalID, inst.ID, rd, time.Time{}))
		if err != nil {
			return model.SyncSummary{}, fmt.Errorf("update document %d: %w", rd.ID, err)
		}
		if applied {
			sum.Updated++
			entry.PaperlessModified = rd.Modified
		} else {
			sum.Unchanged++
		}
		index[rd.ID] = entry
	}

	hid, err := uuid.NewV4()
	if err != nil {
		return model.SyncSummary{}, err
	}
	rec := &model.ImportHistory{
		ID:             hid,
		InstanceID:     inst.ID,
		Imported:       sum.Imported,
		Updated:        sum.Updated,
		Unchanged:      sum.Unchanged,
		TotalInCatalog: sum.Total,
		CreatedAt:      e.now(),
	}
	if err := e.history.Append(ctx, rec); err != nil {
		return model.SyncSummary{}, fmt.Errorf("append import history: %w", err)
	}

	e.log.Info("sync finished",
		zap.String("instance", inst.ID.String()),
		zap.Int("imported", sum.Imported),
		zap.Int("updated", sum.Updated),
		zap.Int("unchanged", sum.Unchanged),
		zap.Int("total", sum.Total),
		zap.Int("filtered_out", sum.FilteredOut),
		zap.Duration("dur", e.now().Sub(start)),
	)
	return sum, nil
}

// fetchAll pages through the remote listing sequentially.
func (e *Engine) fetchAll(ctx context.Context, src RemoteDocumentSource) ([]model.RemoteDocument, error) {
	var all []model.RemoteDocument
	for page := 1; ; page++ {
		p, err := src.FetchDocuments(ctx, page, e.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch documents page %d: %w", page, err)
		}
		all = append(all, p.Results...)
		e.log.Debug("fetched page", zap.Int("page", page), zap.Int("count", len(p.Results)), zap.Bool("has_more", p.HasMore))
		if !p.HasMore {
			return all, nil
		}
		if len(p.Results) == 0 {
			e.log.Warn("empty page reported more results; stopping pagination",
				zap.Int("page", page), zap.Int("fetched", len(all)))
			return all, nil
		}
	}
}

// create inserts a new mirror row. created is false when the row already exists.
func (e *Engine) create(ctx context.Context, instanceID uuid.UUID, rd model.RemoteDocument) (created bool, id uuid.UUID, err error) {
	id, err = uuid.NewV4()
	if err != nil {
		return false, uuid.Nil, err
	}
	err = e.docs.Create(ctx, toMirror(id, instanceID, rd, e.now()))
	switch {
	case err == nil:
		return true, id, nil
	case errors.Is(err, errs.ErrAlreadyExists):
		return false, uuid.Nil, nil
	default:
		return false, uuid.Nil, fmt.Errorf("create document %d: %w", rd.ID, err)
	}
}

// NeedsUpdate reports whether a stored row must be rewritten for a remote modification time.
// Equal timestamps never trigger a write.
func NeedsUpdate(stored, remote *time.Time) bool {
	if stored == nil {
		return true
	}
	if remote == nil {
		return false
	}
	return remote.After(*stored)
}

// FilterByTags keeps documents carrying every tag in filter. An empty filter keeps all.
func FilterByTags(docs []model.RemoteDocument, filter []int) []model.RemoteDocument {
	if len(filter) == 0 {
		return docs
	}
	out := make([]model.RemoteDocument, 0, len(docs))
	for _, d := range docs {
		if hasAll(d.Tags, filter) {
			out = append(out, d)
		}
	}
	return out
}

func hasAll(tags, required []int) bool {
	set := make(map[int]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

func toMirror(id, instanceID uuid.UUID, rd model.RemoteDocument, importedAt time.Time) *model.MirrorDocument {
	tags := rd.Tags
	if tags == nil {
		tags = []int{}
	}
	return &model.MirrorDocument{
		ID:                id,
		InstanceID:        instanceID,
		PaperlessID:       rd.ID,
		Title:             rd.Title,
		Content:           rd.Content,
		CorrespondentID:   rd.Correspondent,
		TagIDs:            tags,
		DocumentDate:      rd.Created,
		PaperlessModified: rd.Modified,
		ImportedAt:        importedAt,
	}
}
