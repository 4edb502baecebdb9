// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Instance is a registered remote Paperless-ngx deployment.
type Instance struct {
	ID               uuid.UUID
	Name             string
	BaseURL          string
	APIToken         string // plaintext in memory only; sealed at rest
	ImportFilterTags []int  // empty = import everything
	CreatedAt        time.Time
}

// RemoteDocument is a document as reported by the remote instance.
type RemoteDocument struct {
	ID            int
	Title         string
	Content       string
	Correspondent *int
	Tags          []int
	Created       time.Time
	Modified      *time.Time
}

// DocumentPage is one page of the remote document listing.
type DocumentPage struct {
	Results []RemoteDocument
	HasMore bool
}

// Tag is a single entry of the remote tag catalog.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MirrorDocument is the local copy of a remote document.
type MirrorDocument struct {
	ID                uuid.UUID // local PK
	InstanceID        uuid.UUID // FK -> instances.id
	PaperlessID       int       // unique per instance
	Title             string
	Content           string
	CorrespondentID   *int
	TagIDs            []int
	DocumentDate      time.Time
	PaperlessModified *time.Time // last seen remote modification
	ImportedAt        time.Time
}

// MirrorIndexEntry is the slice of a mirror row the sync diff needs.
type MirrorIndexEntry struct {
	LocalID           uuid.UUID
	PaperlessModified *time.Time
}

// ImportHistory is an append-only record of one sync run.
type ImportHistory struct {
	ID             uuid.UUID
	InstanceID     uuid.UUID
	Imported       int
	Updated        int
	Unchanged      int
	TotalInCatalog int
	CreatedAt      time.Time
}

// SyncSummary reports the outcome of one sync run.
type SyncSummary struct {
	Imported    int `json:"imported"`
	Updated     int `json:"updated"`
	Unchanged   int `json:"unchanged"`
	Total       int `json:"total"`
	FilteredOut int `json:"filteredOut"`
}
