package paperless

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
)

// Source adapts a Client to the document source and tag catalog the services consume.
type Source struct {
	client      *Client
	tagPageSize int
}

// NewSource wraps c. tagPageSize <= 0 falls back to 100.
func NewSource(c *Client, tagPageSize int) *Source {
	if tagPageSize <= 0 {
		tagPageSize = 100
	}
	return &Source{client: c, tagPageSize: tagPageSize}
}

// FetchDocuments returns one page of remote documents; HasMore mirrors the next-page link.
func (s *Source) FetchDocuments(ctx context.Context, page, pageSize int) (model.DocumentPage, error) {
	list, err := s.client.ListDocuments(ctx, &ListOptions{Page: page, PageSize: pageSize, Ordering: "id"})
	if err != nil {
		return model.DocumentPage{}, err
	}
	out := model.DocumentPage{
		Results: make([]model.RemoteDocument, 0, len(list.Results)),
		HasMore: list.HasNext(),
	}
	for _, d := range list.Results {
		out.Results = append(out.Results, model.RemoteDocument{
			ID:            d.ID,
			Title:         d.Title,
			Content:       d.Content,
			Correspondent: d.Correspondent,
			Tags:          d.Tags,
			Created:       d.Created.Time,
			Modified:      d.Modified,
		})
	}
	return out, nil
}

// FetchTagCatalog returns the full remote tag catalog.
func (s *Source) FetchTagCatalog(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.client.AllTags(ctx, s.tagPageSize)
	if err != nil {
		return nil, err
	}
	out := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, model.Tag{ID: t.ID, Name: t.Name})
	}
	return out, nil
}
