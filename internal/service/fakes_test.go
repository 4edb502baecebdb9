package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/limiter"
	"github.com/and161185/paperless-mirror/internal/mirror"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/repository"
)

type fakeInstances struct {
	byID      map[uuid.UUID]*repository.SealedInstance
	createErr error
}

var _ repository.InstanceRepository = (*fakeInstances)(nil)

func (f *fakeInstances) Create(_ context.Context, in *repository.SealedInstance) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byID == nil {
		f.byID = map[uuid.UUID]*repository.SealedInstance{}
	}
	for _, v := range f.byID {
		if v.Name == in.Name {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *in
	f.byID[in.ID] = &cpy
	return nil
}
func (f *fakeInstances) Get(_ context.Context, id uuid.UUID) (*repository.SealedInstance, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *v
	return &c, nil
}
func (f *fakeInstances) List(context.Context) ([]repository.SealedInstance, error) {
	out := make([]repository.SealedInstance, 0, len(f.byID))
	for _, v := range f.byID {
		out = append(out, *v)
	}
	return out, nil
}
func (f *fakeInstances) SetFilterTags(_ context.Context, id uuid.UUID, tags []int) error {
	v, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	v.ImportFilterTags = tags
	return nil
}

// fakeSealer is a reversible non-crypto sealer.
type fakeSealer struct{ openErr error }

func (fakeSealer) Seal(id []byte, token string) ([]byte, error) {
	return append(append([]byte{}, id...), token...), nil
}
func (f fakeSealer) Open(id, sealed []byte) (string, error) {
	if f.openErr != nil {
		return "", f.openErr
	}
	return string(sealed[len(id):]), nil
}

type fakeTagNames struct {
	names       map[int]string
	remembered  []model.Tag
	rememberErr error
	lookupErr   error
	lookedUp    []int
}

var _ repository.TagNameRepository = (*fakeTagNames)(nil)

func (f *fakeTagNames) Remember(_ context.Context, _ uuid.UUID, tags []model.Tag) error {
	f.remembered = append(f.remembered, tags...)
	return f.rememberErr
}
func (f *fakeTagNames) Lookup(_ context.Context, _ uuid.UUID, ids []int) (map[int]string, error) {
	f.lookedUp = ids
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := map[int]string{}
	for _, id := range ids {
		if n, ok := f.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type fakeRemote struct {
	tags    []model.Tag
	tagsErr error
	calls   int
	token   string
}

func (f *fakeRemote) FetchDocuments(context.Context, int, int) (model.DocumentPage, error) {
	return model.DocumentPage{}, nil
}
func (f *fakeRemote) FetchTagCatalog(context.Context) ([]model.Tag, error) {
	f.calls++
	return f.tags, f.tagsErr
}

func remotesOf(r *fakeRemote) RemoteFactory {
	return func(inst model.Instance) Remote {
		r.token = inst.APIToken
		return r
	}
}

type fakeEngine struct {
	sum  model.SyncSummary
	err  error
	inst model.Instance
	src  mirror.RemoteDocumentSource
}

func (f *fakeEngine) Sync(_ context.Context, src mirror.RemoteDocumentSource, inst model.Instance) (model.SyncSummary, error) {
	f.inst, f.src = inst, src
	return f.sum, f.err
}

type fakeHistory struct {
	lastLimit int
	rows      []model.ImportHistory
}

var _ repository.HistoryRepository = (*fakeHistory)(nil)

func (f *fakeHistory) Append(_ context.Context, h *model.ImportHistory) error {
	f.rows = append(f.rows, *h)
	return nil
}
func (f *fakeHistory) List(_ context.Context, _ uuid.UUID, limit int) ([]model.ImportHistory, error) {
	f.lastLimit = limit
	return f.rows, nil
}

type fakeLimiter struct {
	allowOK    bool
	retryAfter time.Duration
	allowErr   error

	failures  int
	successes int
	blockOn   int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (f *fakeLimiter) Allow(context.Context, uuid.UUID) (bool, time.Duration, error) {
	return f.allowOK, f.retryAfter, f.allowErr
}
func (f *fakeLimiter) Success(context.Context, uuid.UUID) error {
	f.successes++
	return nil
}
func (f *fakeLimiter) Failure(context.Context, uuid.UUID) (bool, time.Duration, error) {
	f.failures++
	return f.blockOn > 0 && f.failures >= f.blockOn, time.Minute, nil
}

type fakeDocs struct {
	byID map[uuid.UUID]*model.MirrorDocument
}

var _ repository.DocumentRepository = (*fakeDocs)(nil)

func (f *fakeDocs) Index(context.Context, uuid.UUID) (map[int]model.MirrorIndexEntry, error) {
	return nil, errors.New("not used")
}
func (f *fakeDocs) FindByPaperlessID(context.Context, uuid.UUID, int) (*model.MirrorDocument, error) {
	return nil, errs.ErrNotFound
}
func (f *fakeDocs) GetByID(_ context.Context, id uuid.UUID) (*model.MirrorDocument, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *d
	return &c, nil
}
func (f *fakeDocs) Create(context.Context, *model.MirrorDocument) error { return errors.New("not used") }
func (f *fakeDocs) Update(context.Context, *model.MirrorDocument) (bool, error) {
	return false, errors.New("not used")
}

type fakeResults struct {
	saved  []model.ProcessingResult
	latest map[uuid.UUID]model.ProcessingResult
}

var _ repository.ResultRepository = (*fakeResults)(nil)

func (f *fakeResults) Save(_ context.Context, r *model.ProcessingResult) error {
	f.saved = append(f.saved, *r)
	return nil
}
func (f *fakeResults) GetLatest(_ context.Context, documentID uuid.UUID) (*model.ProcessingResult, error) {
	r, ok := f.latest[documentID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &r, nil
}
