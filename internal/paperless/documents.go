package paperless

import (
	"context"
	"fmt"
)

// ListDocuments retrieves one page of documents.
func (c *Client) ListDocuments(ctx context.Context, opts *ListOptions) (*DocumentList, error) {
	fullURL, err := c.buildURL(documentsAPIPath, opts)
	if err != nil {
		return nil, fmt.Errorf("build URL: %w", err)
	}

	var result DocumentList
	if err := c.doRequestWithURL(ctx, "GET", fullURL, &result); err != nil {
		return nil, wrapError(err, "ListDocuments")
	}

	return &result, nil
}
