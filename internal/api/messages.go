package api

import (
	"encoding/json"
	"time"
)

// Instance is a registered remote instance. Tokens never leave the server.
type Instance struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BaseURL          string    `json:"baseUrl"`
	ImportFilterTags []int     `json:"importFilterTags"`
	CreatedAt        time.Time `json:"createdAt"`
}

type RegisterInstanceRequest struct {
	Name             string `json:"name"`
	BaseURL          string `json:"baseUrl"`
	APIToken         string `json:"apiToken"`
	ImportFilterTags []int  `json:"importFilterTags,omitempty"`
}

type InstanceResponse struct {
	Instance Instance `json:"instance"`
}

type ListInstancesRequest struct{}

type ListInstancesResponse struct {
	Instances []Instance `json:"instances"`
}

type SetFilterTagsRequest struct {
	InstanceID string `json:"instanceId"`
	Tags       []int  `json:"tags"`
}

type SetFilterTagsResponse struct{}

type ProbeInstanceRequest struct {
	InstanceID string `json:"instanceId"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProbeInstanceResponse struct {
	Tags []Tag `json:"tags"`
}

type SyncDocumentsRequest struct {
	InstanceID string `json:"instanceId"`
}

// SyncDocumentsResponse is the summary of one sync run.
type SyncDocumentsResponse struct {
	Imported    int `json:"imported"`
	Updated     int `json:"updated"`
	Unchanged   int `json:"unchanged"`
	Total       int `json:"total"`
	FilteredOut int `json:"filteredOut"`
}

type ListHistoryRequest struct {
	InstanceID string `json:"instanceId"`
	Limit      int    `json:"limit,omitempty"`
}

type HistoryRecord struct {
	ID             string    `json:"id"`
	Imported       int       `json:"imported"`
	Updated        int       `json:"updated"`
	Unchanged      int       `json:"unchanged"`
	TotalInCatalog int       `json:"totalInCatalog"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ListHistoryResponse struct {
	Runs []HistoryRecord `json:"runs"`
}

// SubmitResultRequest carries an opaque AI changes payload for a mirrored document.
type SubmitResultRequest struct {
	DocumentID string          `json:"documentId"`
	Changes    json.RawMessage `json:"changes"`
}

type SubmitResultResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type GetResultRequest struct {
	DocumentID string `json:"documentId"`
}

// GetResultResponse carries the reconciled changes payload.
type GetResultResponse struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"documentId"`
	Changes    json.RawMessage `json:"changes"`
	CreatedAt  time.Time       `json:"createdAt"`
}
