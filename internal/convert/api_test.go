package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
)

func TestParseID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	got, err := ParseID("instance_id", id.String())
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = ParseID("instance_id", "nope")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Contains(t, err.Error(), "instance_id")

	_, err = ParseID("instance_id", uuid.Nil.String())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestToAPIInstance_NoTokenAndEmptyTags(t *testing.T) {
	in := model.Instance{ID: uuid.Must(uuid.NewV4()), Name: "home", APIToken: "secret", CreatedAt: time.Now()}
	out := ToAPIInstance(in)
	require.Equal(t, []int{}, out.ImportFilterTags)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(b), "secret")
}

func TestToAPIHistory_PreservesOrder(t *testing.T) {
	a, b := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	out := ToAPIHistory([]model.ImportHistory{{ID: a, Imported: 91, TotalInCatalog: 453}, {ID: b, Imported: 362}})
	require.Len(t, out, 2)
	require.Equal(t, a.String(), out[0].ID)
	require.Equal(t, 453, out[0].TotalInCatalog)
}

func TestFromAPIChanges(t *testing.T) {
	ch, err := FromAPIChanges(nil)
	require.NoError(t, err)
	require.Nil(t, ch.SuggestedTags)

	ch, err = FromAPIChanges(json.RawMessage(`{"suggestedTags":[{"name":"A"}],"k":1}`))
	require.NoError(t, err)
	require.Len(t, ch.SuggestedTags, 1)

	_, err = FromAPIChanges(json.RawMessage(`"str"`))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestToAPIResult(t *testing.T) {
	id := 3
	r := model.ReconciledResult{
		ID:         uuid.Must(uuid.NewV4()),
		DocumentID: uuid.Must(uuid.NewV4()),
		Changes: model.ReconciledChanges{
			Tags: []model.EnrichedTagSuggestion{{ID: &id, Name: "A", IsAssigned: true, IsRemoved: true}},
		},
	}
	out, err := ToAPIResult(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"suggestedTags":[{"id":3,"name":"A","isAssigned":true,"isRemoved":true}]}`, string(out.Changes))
}

func TestToAPISummary(t *testing.T) {
	s := ToAPISummary(model.SyncSummary{Imported: 91, Unchanged: 362, Total: 453, FilteredOut: 2})
	require.Equal(t, 453, s.Total)
	require.Equal(t, 2, s.FilteredOut)
}
