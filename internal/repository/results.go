package repository

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ResultRepository stores AI processing results per mirrored document.
type ResultRepository interface {
	// Save inserts a new result.
	Save(ctx context.Context, r *model.ProcessingResult) error
	// GetLatest returns the most recent result for a document.
	GetLatest(ctx context.Context, documentID uuid.UUID) (*model.ProcessingResult, error)
}
