// Package convert maps domain models to and from API messages.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/paperless-mirror/internal/api"
	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
)

// ParseID parses a UUID field of a request, naming it in the error.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s", errs.ErrInvalidArgument, field)
	}
	return id, nil
}

// ToAPIInstance converts an instance; the token is never copied.
func ToAPIInstance(in model.Instance) api.Instance {
	tags := in.ImportFilterTags
	if tags == nil {
		tags = []int{}
	}
	return api.Instance{
		ID:               in.ID.String(),
		Name:             in.Name,
		BaseURL:          in.BaseURL,
		ImportFilterTags: tags,
		CreatedAt:        in.CreatedAt,
	}
}

// ToAPIInstances converts a list of instances.
func ToAPIInstances(in []model.Instance) []api.Instance {
	out := make([]api.Instance, 0, len(in))
	for _, i := range in {
		out = append(out, ToAPIInstance(i))
	}
	return out
}

// ToAPITags converts catalog tags.
func ToAPITags(in []model.Tag) []api.Tag {
	out := make([]api.Tag, 0, len(in))
	for _, t := range in {
		out = append(out, api.Tag{ID: t.ID, Name: t.Name})
	}
	return out
}

// ToAPISummary converts a sync summary.
func ToAPISummary(s model.SyncSummary) *api.SyncDocumentsResponse {
	return &api.SyncDocumentsResponse{
		Imported:    s.Imported,
		Updated:     s.Updated,
		Unchanged:   s.Unchanged,
		Total:       s.Total,
		FilteredOut: s.FilteredOut,
	}
}

// ToAPIHistory converts history records, preserving order.
func ToAPIHistory(in []model.ImportHistory) []api.HistoryRecord {
	out := make([]api.HistoryRecord, 0, len(in))
	for _, h := range in {
		out = append(out, api.HistoryRecord{
			ID:             h.ID.String(),
			Imported:       h.Imported,
			Updated:        h.Updated,
			Unchanged:      h.Unchanged,
			TotalInCatalog: h.TotalInCatalog,
			CreatedAt:      h.CreatedAt,
		})
	}
	return out
}

// FromAPIChanges decodes an opaque changes payload. An empty payload is an empty object.
func FromAPIChanges(raw json.RawMessage) (model.Changes, error) {
	var ch model.Changes
	if len(raw) == 0 {
		return ch, nil
	}
	if err := json.Unmarshal(raw, &ch); err != nil {
		return model.Changes{}, fmt.Errorf("%w: changes: %v", errs.ErrInvalidArgument, err)
	}
	return ch, nil
}

// ToAPIResult converts a reconciled result.
func ToAPIResult(r model.ReconciledResult) (*api.GetResultResponse, error) {
	raw, err := json.Marshal(r.Changes)
	if err != nil {
		return nil, err
	}
	return &api.GetResultResponse{
		ID:         r.ID.String(),
		DocumentID: r.DocumentID.String(),
		Changes:    raw,
		CreatedAt:  r.CreatedAt,
	}, nil
}
