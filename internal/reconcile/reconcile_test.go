package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/paperless-mirror/internal/model"
)

func ip(v int) *int       { return &v }
func sp(v string) *string { return &v }

func catalog(last map[int]string) Catalog {
	return NewCatalog([]model.Tag{{ID: 10, Name: "Finance"}, {ID: 20, Name: "Archive"}}, last)
}

func TestTags_IDNameMismatch_ResolvesByName(t *testing.T) {
	got := Tags(nil, []model.SuggestedTag{{ID: ip(99), Name: sp("Finance")}},
		NewCatalog([]model.Tag{{ID: 10, Name: "Finance"}}, nil))
	require.Equal(t, []model.EnrichedTagSuggestion{{ID: ip(10), Name: "Finance", IsAssigned: false}}, got)
}

func TestTags_UnknownName_Unresolved(t *testing.T) {
	got := Tags(nil, []model.SuggestedTag{{Name: sp("NewTag")}}, catalog(nil))
	require.Len(t, got, 1)
	require.Nil(t, got[0].ID)
	require.Equal(t, "NewTag", got[0].Name)
	require.False(t, got[0].IsAssigned)
}

func TestTags_SynthesizesRemoved(t *testing.T) {
	got := Tags([]int{10, 20}, []model.SuggestedTag{{ID: ip(10), Name: sp("Finance")}}, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{
		{ID: ip(10), Name: "Finance", IsAssigned: true},
		{ID: ip(20), Name: "Archive", IsAssigned: true, IsRemoved: true},
	}, got)
}

func TestTags_IDAndNameMatch_Kept(t *testing.T) {
	got := Tags([]int{20}, []model.SuggestedTag{{ID: ip(20), Name: sp("Archive")}}, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{{ID: ip(20), Name: "Archive", IsAssigned: true}}, got)
}

func TestTags_IDNotInCatalog_NameUnknown_DropsID(t *testing.T) {
	got := Tags(nil, []model.SuggestedTag{{ID: ip(77), Name: sp("Travel")}}, catalog(nil))
	require.Nil(t, got[0].ID)
	require.Equal(t, "Travel", got[0].Name)
}

func TestTags_IDOnly_TrustedAsIs(t *testing.T) {
	got := Tags([]int{77}, []model.SuggestedTag{{ID: ip(77)}}, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{{ID: ip(77), Name: "", IsAssigned: true}}, got)

	got = Tags(nil, []model.SuggestedTag{{ID: ip(10)}}, catalog(nil))
	require.Equal(t, "Finance", got[0].Name)
}

func TestTags_NameOnly_Resolved(t *testing.T) {
	got := Tags([]int{10}, []model.SuggestedTag{{Name: sp("Finance")}}, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{{ID: ip(10), Name: "Finance", IsAssigned: true}}, got)
}

func TestTags_NameMatchIsCaseSensitive(t *testing.T) {
	got := Tags(nil, []model.SuggestedTag{{Name: sp("finance")}}, catalog(nil))
	require.Nil(t, got[0].ID)
}

func TestTags_Degenerate(t *testing.T) {
	got := Tags(nil, []model.SuggestedTag{{}}, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{{}}, got)
}

func TestTags_NoSuggestions_AllCurrentRemoved(t *testing.T) {
	got := Tags([]int{20, 10, 20}, nil, catalog(nil))
	require.Equal(t, []model.EnrichedTagSuggestion{
		{ID: ip(20), Name: "Archive", IsAssigned: true, IsRemoved: true},
		{ID: ip(10), Name: "Finance", IsAssigned: true, IsRemoved: true},
	}, got)
}

func TestTags_VanishedTag_UsesLastKnownName(t *testing.T) {
	got := Tags([]int{30, 31}, nil, catalog(map[int]string{30: "Old Receipts"}))
	require.Equal(t, "Old Receipts", got[0].Name)
	require.True(t, got[0].IsRemoved)
	require.Equal(t, "", got[1].Name)
	require.Equal(t, 31, *got[1].ID)
}

func TestTags_PreservesSuggestionOrder(t *testing.T) {
	got := Tags([]int{10}, []model.SuggestedTag{
		{Name: sp("Zeta")},
		{Name: sp("Archive")},
		{ID: ip(10), Name: sp("Finance")},
	}, catalog(nil))
	require.Len(t, got, 3)
	require.Equal(t, "Zeta", got[0].Name)
	require.Equal(t, "Archive", got[1].Name)
	require.Equal(t, "Finance", got[2].Name)
	require.False(t, got[1].IsAssigned)
	require.True(t, got[2].IsAssigned)
}

func TestResult_PassesThroughSiblings(t *testing.T) {
	var changes model.Changes
	raw := `{"suggestedTitle":"Electricity bill","suggestedCorrespondent":{"id":4,"name":"Utility"},"confidence":0.8}`
	require.NoError(t, json.Unmarshal([]byte(raw), &changes))
	require.Nil(t, changes.SuggestedTags)

	out := Result(model.ProcessingResult{Changes: changes}, []int{10}, catalog(nil))
	title, _ := out.Changes.Title()
	require.Equal(t, "Electricity bill", title)
	corr, ok := out.Changes.Correspondent()
	require.True(t, ok)
	require.Equal(t, 4, *corr.ID)
	require.Equal(t, []model.EnrichedTagSuggestion{{ID: ip(10), Name: "Finance", IsAssigned: true, IsRemoved: true}}, out.Changes.Tags)

	b, err := json.Marshal(out.Changes)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, "Electricity bill", back["suggestedTitle"])
	require.Equal(t, 0.8, back["confidence"])
	tags := back["suggestedTags"].([]any)
	require.Len(t, tags, 1)
	require.Equal(t, true, tags[0].(map[string]any)["isRemoved"])
}
