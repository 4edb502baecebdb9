package model

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
)

// JSON keys of the known fields in a changes payload.
const (
	keySuggestedTitle         = "suggestedTitle"
	keySuggestedCorrespondent = "suggestedCorrespondent"
	keySuggestedDocumentDate  = "suggestedDocumentDate"
	keySuggestedTags          = "suggestedTags"
)

// SuggestedTag is a tag reference proposed by the AI step. Either field may be missing.
type SuggestedTag struct {
	ID   *int    `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// SuggestedCorrespondent is a correspondent reference proposed by the AI step.
type SuggestedCorrespondent struct {
	ID   *int    `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// EnrichedTagSuggestion is a suggestion with its identity resolved against the remote catalog.
type EnrichedTagSuggestion struct {
	ID         *int   `json:"id,omitempty"`
	Name       string `json:"name"`
	IsAssigned bool   `json:"isAssigned"`
	IsRemoved  bool   `json:"isRemoved,omitempty"`
}

// Changes is the partially populated suggestion payload stored per processing result.
// Only the tag list is decoded; every other key is kept verbatim in Fields.
type Changes struct {
	SuggestedTags []SuggestedTag // nil when the payload carries no tag list
	Fields        map[string]json.RawMessage
}

// UnmarshalJSON decodes the tag list and keeps sibling keys as raw JSON.
func (c *Changes) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = Changes{}
	if v, ok := raw[keySuggestedTags]; ok {
		if err := json.Unmarshal(v, &c.SuggestedTags); err != nil {
			return err
		}
		delete(raw, keySuggestedTags)
	}
	if len(raw) > 0 {
		c.Fields = raw
	}
	return nil
}

// MarshalJSON writes the sibling keys unchanged plus the tag list when set.
func (c Changes) MarshalJSON() ([]byte, error) {
	out := c.siblings()
	if c.SuggestedTags != nil {
		b, err := json.Marshal(c.SuggestedTags)
		if err != nil {
			return nil, err
		}
		out[keySuggestedTags] = b
	}
	return json.Marshal(out)
}

func (c Changes) siblings() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(c.Fields)+1)
	for k, v := range c.Fields {
		out[k] = v
	}
	return out
}

// Title returns suggestedTitle when it is a JSON string.
func (c Changes) Title() (string, bool) {
	return c.stringField(keySuggestedTitle)
}

// DocumentDate returns suggestedDocumentDate when it is a JSON string.
func (c Changes) DocumentDate() (string, bool) {
	return c.stringField(keySuggestedDocumentDate)
}

// Correspondent reads suggestedCorrespondent as an {id, name} object, a bare id or a bare name.
func (c Changes) Correspondent() (SuggestedCorrespondent, bool) {
	v, ok := c.Fields[keySuggestedCorrespondent]
	if !ok {
		return SuggestedCorrespondent{}, false
	}
	var obj SuggestedCorrespondent
	if err := json.Unmarshal(v, &obj); err == nil && (obj.ID != nil || obj.Name != nil) {
		return obj, true
	}
	var id int
	if err := json.Unmarshal(v, &id); err == nil {
		return SuggestedCorrespondent{ID: &id}, true
	}
	var name string
	if err := json.Unmarshal(v, &name); err == nil {
		return SuggestedCorrespondent{Name: &name}, true
	}
	return SuggestedCorrespondent{}, false
}

func (c Changes) stringField(key string) (string, bool) {
	v, ok := c.Fields[key]
	if !ok {
		return "", false
	}
	var s *string
	if err := json.Unmarshal(v, &s); err != nil || s == nil {
		return "", false
	}
	return *s, true
}

// ReconciledChanges is Changes with the tag list replaced by resolved suggestions.
type ReconciledChanges struct {
	Changes                              // SuggestedTags is ignored when marshalling
	Tags    []EnrichedTagSuggestion
}

// MarshalJSON writes the sibling keys untouched and the enriched list under suggestedTags.
func (r ReconciledChanges) MarshalJSON() ([]byte, error) {
	out := r.Changes.siblings()
	tags := r.Tags
	if tags == nil {
		tags = []EnrichedTagSuggestion{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	out[keySuggestedTags] = b
	return json.Marshal(out)
}

// UnmarshalJSON reads sibling keys and the enriched tag list.
func (r *ReconciledChanges) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var tags []EnrichedTagSuggestion
	if v, ok := raw[keySuggestedTags]; ok {
		if err := json.Unmarshal(v, &tags); err != nil {
			return err
		}
		delete(raw, keySuggestedTags)
	}
	var c Changes
	if len(raw) > 0 {
		c.Fields = raw
	}
	*r = ReconciledChanges{Changes: c, Tags: tags}
	return nil
}

// ProcessingResult is a stored AI suggestion payload for a mirrored document.
type ProcessingResult struct {
	ID         uuid.UUID
	DocumentID uuid.UUID // FK -> mirror_documents.id
	Changes    Changes
	CreatedAt  time.Time
}

// ReconciledResult is a ProcessingResult ready to be shown for approval.
type ReconciledResult struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Changes    ReconciledChanges
	CreatedAt  time.Time
}
