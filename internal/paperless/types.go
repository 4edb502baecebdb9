package paperless

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Document represents a Paperless-ngx document.
type Document struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Correspondent *int       `json:"correspondent"`
	Tags          []int      `json:"tags"`
	Created       Date       `json:"created"`
	Modified      *time.Time `json:"modified"`
}

// Tag represents a Paperless-ngx tag.
type Tag struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug,omitempty"`
	DocumentCount int    `json:"document_count,omitempty"`
}

// List is a paginated response.
type List[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the server linked a further page.
func (l *List[T]) HasNext() bool {
	return l.Next != nil && *l.Next != ""
}

// DocumentList is a paginated list of documents.
type DocumentList = List[Document]

// TagList is a paginated list of tags.
type TagList = List[Tag]

// ListOptions configures list operations.
type ListOptions struct {
	Page     int    // Page number (1-indexed), 0 means default
	PageSize int    // Results per page, 0 means default
	Ordering string // Sort field (prefix with - for descending)
}

// Date accepts both the date-only ("2024-01-31") and the full timestamp form
// that different Paperless-ngx versions use for the created field.
type Date struct{ time.Time }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date %q", s)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}
