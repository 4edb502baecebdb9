package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
)

type suggestionFixture struct {
	svc     *SuggestionServiceImpl
	remote  *fakeRemote
	names   *fakeTagNames
	results *fakeResults
	docID   uuid.UUID
}

func newSuggestionFixture(t *testing.T, tagIDs []int, payload string) suggestionFixture {
	t.Helper()
	remote := &fakeRemote{tags: []model.Tag{{ID: 10, Name: "Finance"}, {ID: 20, Name: "Archive"}}}
	names := &fakeTagNames{names: map[int]string{30: "Old Receipts"}}
	inst, _ := newInstanceSvc(remote, names)
	registered, err := inst.Register(context.Background(), "home", "https://a", "tok", nil)
	require.NoError(t, err)

	docID := uuid.Must(uuid.NewV4())
	docs := &fakeDocs{byID: map[uuid.UUID]*model.MirrorDocument{
		docID: {ID: docID, InstanceID: registered.ID, PaperlessID: 1, TagIDs: tagIDs},
	}}
	results := &fakeResults{latest: map[uuid.UUID]model.ProcessingResult{}}
	if payload != "" {
		var ch model.Changes
		require.NoError(t, json.Unmarshal([]byte(payload), &ch))
		results.latest[docID] = model.ProcessingResult{ID: uuid.Must(uuid.NewV4()), DocumentID: docID, Changes: ch}
	}
	return suggestionFixture{
		svc:     NewSuggestionService(docs, results, names, inst, remotesOf(remote), nil),
		remote:  remote,
		names:   names,
		results: results,
		docID:   docID,
	}
}

func TestSuggestionService_Get_Reconciles(t *testing.T) {
	f := newSuggestionFixture(t, []int{10, 20},
		`{"suggestedTitle":"Bill","suggestedTags":[{"id":99,"name":"Finance"},{"name":"NewTag"}]}`)

	out, err := f.svc.Get(context.Background(), f.docID)
	require.NoError(t, err)
	title, ok := out.Changes.Title()
	require.True(t, ok)
	require.Equal(t, "Bill", title)

	tags := out.Changes.Tags
	require.Len(t, tags, 3)
	require.Equal(t, 10, *tags[0].ID)
	require.True(t, tags[0].IsAssigned)
	require.Nil(t, tags[1].ID)
	require.Equal(t, "NewTag", tags[1].Name)
	require.Equal(t, 20, *tags[2].ID)
	require.True(t, tags[2].IsRemoved)

	require.Equal(t, "tok", f.remote.token)
	require.Empty(t, f.names.remembered)
	require.Nil(t, f.names.lookedUp)
}

func TestSuggestionService_Get_VanishedTagUsesLastKnownName(t *testing.T) {
	f := newSuggestionFixture(t, []int{30}, `{}`)

	out, err := f.svc.Get(context.Background(), f.docID)
	require.NoError(t, err)
	require.Equal(t, []int{30}, f.names.lookedUp)
	require.Len(t, out.Changes.Tags, 1)
	require.Equal(t, "Old Receipts", out.Changes.Tags[0].Name)
	require.True(t, out.Changes.Tags[0].IsRemoved)
}

func TestSuggestionService_Get_LookupFailureDegrades(t *testing.T) {
	f := newSuggestionFixture(t, []int{30}, `{}`)
	f.names.lookupErr = errors.New("db down")

	out, err := f.svc.Get(context.Background(), f.docID)
	require.NoError(t, err)
	require.Equal(t, "", out.Changes.Tags[0].Name)
}

func TestSuggestionService_Get_CatalogFailureAborts(t *testing.T) {
	f := newSuggestionFixture(t, []int{10}, `{"suggestedTags":[]}`)
	f.remote.tagsErr = errors.New("remote unreachable")

	_, err := f.svc.Get(context.Background(), f.docID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch tag catalog")
}

func TestSuggestionService_Get_NotFound(t *testing.T) {
	f := newSuggestionFixture(t, nil, "")

	_, err := f.svc.Get(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.svc.Get(context.Background(), f.docID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Zero(t, f.remote.calls)
}

func TestSuggestionService_Submit(t *testing.T) {
	f := newSuggestionFixture(t, nil, "")
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	var ch model.Changes
	require.NoError(t, json.Unmarshal([]byte(`{"suggestedTitle":"x"}`), &ch))
	res, err := f.svc.Submit(context.Background(), f.docID, ch)
	require.NoError(t, err)
	require.Equal(t, f.docID, res.DocumentID)
	require.Equal(t, now, res.CreatedAt)
	require.Len(t, f.results.saved, 1)

	_, err = f.svc.Submit(context.Background(), uuid.Must(uuid.NewV4()), ch)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
