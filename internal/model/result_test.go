package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChanges_UnknownKeysSurvive(t *testing.T) {
	in := `{"suggestedTitle":"T","suggestedTags":[{"id":1},{"name":"x"}],"model":"gpt","nested":{"a":[1,2]}}`
	var c Changes
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	title, ok := c.Title()
	require.True(t, ok)
	require.Equal(t, "T", title)
	require.Len(t, c.SuggestedTags, 2)
	require.Equal(t, 1, *c.SuggestedTags[0].ID)
	require.Nil(t, c.SuggestedTags[0].Name)
	require.Len(t, c.Fields, 3)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestChanges_SiblingsRoundTripVerbatim(t *testing.T) {
	cases := []string{
		`{"suggestedTitle":null,"other":1}`,
		`{"suggestedDocumentDate":null}`,
		`{"suggestedCorrespondent":"ACME"}`,
		`{"suggestedCorrespondent":12}`,
		`{"suggestedCorrespondent":{"id":4,"name":"Utility"},"suggestedTitle":42}`,
	}
	for _, in := range cases {
		var c Changes
		require.NoError(t, json.Unmarshal([]byte(in), &c), in)
		out, err := json.Marshal(c)
		require.NoError(t, err)
		require.JSONEq(t, in, string(out))

		rc := ReconciledChanges{Changes: c}
		out, err = json.Marshal(rc)
		require.NoError(t, err)
		var back map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &back))
		require.JSONEq(t, `[]`, string(back["suggestedTags"]))
		delete(back, "suggestedTags")
		rest, err := json.Marshal(back)
		require.NoError(t, err)
		require.JSONEq(t, in, string(rest))
	}
}

func TestChanges_Accessors(t *testing.T) {
	var c Changes
	require.NoError(t, json.Unmarshal([]byte(`{"suggestedTitle":null,"suggestedDocumentDate":"2024-01-01","suggestedCorrespondent":12}`), &c))
	_, ok := c.Title()
	require.False(t, ok)
	d, ok := c.DocumentDate()
	require.True(t, ok)
	require.Equal(t, "2024-01-01", d)
	corr, ok := c.Correspondent()
	require.True(t, ok)
	require.Equal(t, 12, *corr.ID)
	require.Nil(t, corr.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"suggestedCorrespondent":"ACME"}`), &c))
	corr, ok = c.Correspondent()
	require.True(t, ok)
	require.Equal(t, "ACME", *corr.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"suggestedCorrespondent":{"id":4,"name":"Utility"}}`), &c))
	corr, ok = c.Correspondent()
	require.True(t, ok)
	require.Equal(t, 4, *corr.ID)
	require.Equal(t, "Utility", *corr.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"suggestedCorrespondent":[1]}`), &c))
	_, ok = c.Correspondent()
	require.False(t, ok)
}

func TestChanges_NullOrMissingTags(t *testing.T) {
	var c Changes
	require.NoError(t, json.Unmarshal([]byte(`{"suggestedTags":null}`), &c))
	require.Nil(t, c.SuggestedTags)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &c))
	require.Nil(t, c.SuggestedTags)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(out))
}

func TestChanges_RejectsNonObject(t *testing.T) {
	var c Changes
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &c))
	require.Error(t, json.Unmarshal([]byte(`{"suggestedTags":"nope"}`), &c))
}

func TestReconciledChanges_EmptyTagsMarshalAsArray(t *testing.T) {
	r := ReconciledChanges{}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"suggestedTags":[]}`, string(out))

	var back ReconciledChanges
	require.NoError(t, json.Unmarshal([]byte(`{"suggestedDocumentDate":"2024-01-01","suggestedTags":[{"id":3,"name":"A","isAssigned":true,"isRemoved":true}]}`), &back))
	d, ok := back.DocumentDate()
	require.True(t, ok)
	require.Equal(t, "2024-01-01", d)
	require.Len(t, back.Tags, 1)
	require.True(t, back.Tags[0].IsRemoved)
}
