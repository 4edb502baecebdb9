package paperless

import (
	"context"
	"fmt"
)

// ListTags retrieves one page of tags.
func (c *Client) ListTags(ctx context.Context, opts *ListOptions) (*TagList, error) {
	fullURL, err := c.buildURL(tagsAPIPath, opts)
	if err != nil {
		return nil, fmt.Errorf("build URL: %w", err)
	}

	var result TagList
	if err := c.doRequestWithURL(ctx, "GET", fullURL, &result); err != nil {
		return nil, wrapError(err, "ListTags")
	}

	return &result, nil
}

// AllTags fetches every page of the tag catalog.
func (c *Client) AllTags(ctx context.Context, pageSize int) ([]Tag, error) {
	var all []Tag
	opts := &ListOptions{Page: 1, PageSize: pageSize, Ordering: "id"}
	for {
		page, err := c.ListTags(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if !page.HasNext() || len(page.Results) == 0 {
			return all, nil
		}
		opts.Page++
	}
}
