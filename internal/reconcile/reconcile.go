// Package reconcile resolves AI tag suggestions against the remote tag catalog.
package reconcile

import "github.com/and161185/paperless-mirror/internal/model"

// Catalog is an id<->name view of a freshly fetched remote tag catalog.
type Catalog struct {
	byID      map[int]string
	byName    map[string]int
	lastKnown map[int]string
}

// NewCatalog indexes tags. lastKnown supplies display names for ids the live
// catalog no longer contains; it never takes part in identity resolution.
// When a name appears twice the first id wins.
func NewCatalog(tags []model.Tag, lastKnown map[int]string) Catalog {
	c := Catalog{
		byID:      make(map[int]string, len(tags)),
		byName:    make(map[string]int, len(tags)),
		lastKnown: lastKnown,
	}
	for _, t := range tags {
		c.byID[t.ID] = t.Name
		if _, dup := c.byName[t.Name]; !dup {
			c.byName[t.Name] = t.ID
		}
	}
	return c
}

// idByName returns the catalog id of a tag name.
func (c Catalog) idByName(name string) (int, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// displayName returns the best available name for an id.
func (c Catalog) displayName(id int) string {
	if n, ok := c.byID[id]; ok {
		return n
	}
	return c.lastKnown[id]
}

// Tags resolves suggested against the catalog and appends removal candidates
// for every currently attached tag the suggestion does not keep.
func Tags(current []int, suggested []model.SuggestedTag, catalog Catalog) []model.EnrichedTagSuggestion {
	assigned := make(map[int]struct{}, len(current))
	for _, id := range current {
		assigned[id] = struct{}{}
	}

	out := make([]model.EnrichedTagSuggestion, 0, len(suggested)+len(current))
	kept := make(map[int]struct{}, len(suggested))
	for _, s := range suggested {
		e := resolve(s, catalog)
		if e.ID != nil {
			_, e.IsAssigned = assigned[*e.ID]
			kept[*e.ID] = struct{}{}
		}
		out = append(out, e)
	}

	for _, id := range current {
		if _, ok := kept[id]; ok {
			continue
		}
		kept[id] = struct{}{}
		tagID := id
		out = append(out, model.EnrichedTagSuggestion{
			ID:         &tagID,
			Name:       catalog.displayName(id),
			IsAssigned: true,
			IsRemoved:  true,
		})
	}
	return out
}

// resolve applies the id/name rules to a single suggestion.
func resolve(s model.SuggestedTag, catalog Catalog) model.EnrichedTagSuggestion {
	switch {
	case s.ID != nil && s.Name != nil:
		if name, ok := catalog.byID[*s.ID]; ok && name == *s.Name {
			return model.EnrichedTagSuggestion{ID: intPtr(*s.ID), Name: *s.Name}
		}
		return byName(*s.Name, catalog)
	case s.Name != nil:
		return byName(*s.Name, catalog)
	case s.ID != nil:
		// no name to cross-check against
		return model.EnrichedTagSuggestion{ID: intPtr(*s.ID), Name: catalog.displayName(*s.ID)}
	default:
		return model.EnrichedTagSuggestion{}
	}
}

func byName(name string, catalog Catalog) model.EnrichedTagSuggestion {
	e := model.EnrichedTagSuggestion{Name: name}
	if id, ok := catalog.idByName(name); ok {
		e.ID = intPtr(id)
	}
	return e
}

// Result returns res with its tag suggestions reconciled. Sibling fields of
// the changes payload pass through untouched; a missing tag list counts as empty.
func Result(res model.ProcessingResult, current []int, catalog Catalog) model.ReconciledResult {
	changes := res.Changes
	tags := Tags(current, changes.SuggestedTags, catalog)
	changes.SuggestedTags = nil
	return model.ReconciledResult{
		ID:         res.ID,
		DocumentID: res.DocumentID,
		Changes:    model.ReconciledChanges{Changes: changes, Tags: tags},
		CreatedAt:  res.CreatedAt,
	}
}

func intPtr(v int) *int { return &v }
