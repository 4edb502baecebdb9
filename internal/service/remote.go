// Package service contains application services for instances, sync runs and AI suggestions.
package service

import (
	"context"
	"time"

	"github.com/and161185/paperless-mirror/internal/mirror"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/and161185/paperless-mirror/internal/paperless"
)

// Remote is everything the services need from one remote instance.
type Remote interface {
	mirror.RemoteDocumentSource
	// FetchTagCatalog returns the full, live tag catalog.
	FetchTagCatalog(ctx context.Context) ([]model.Tag, error)
}

// RemoteFactory opens a Remote for an instance with a plaintext token.
type RemoteFactory func(inst model.Instance) Remote

// PaperlessRemotes returns a factory backed by the Paperless REST client.
// timeout bounds each HTTP request; zero leaves requests unbounded, which is
// what sync runs use so a slow page never aborts the run.
func PaperlessRemotes(timeout time.Duration, tagPageSize int) RemoteFactory {
	return func(inst model.Instance) Remote {
		c := paperless.NewClient(inst.BaseURL, inst.APIToken, paperless.WithTimeout(timeout))
		return paperless.NewSource(c, tagPageSize)
	}
}
