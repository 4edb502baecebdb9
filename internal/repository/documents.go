// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
)

// DocumentRepository provides access to the local document mirror.
type DocumentRepository interface {
	// Index returns paperless id -> {local id, last seen modification} for an instance.
	Index(ctx context.Context, instanceID uuid.UUID) (map[int]model.MirrorIndexEntry, error)

	// FindByPaperlessID loads a single mirror row by its remote identity.
	FindByPaperlessID(ctx context.Context, instanceID uuid.UUID, paperlessID int) (*model.MirrorDocument, error)

	// GetByID loads a single mirror row by local id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MirrorDocument, error)

	// Create inserts a mirror row; returns errs.ErrAlreadyExists if (instance, paperless id) is taken.
	Create(ctx context.Context, d *model.MirrorDocument) error

	// Update overwrites mutable fields unless the stored row is already at least as new.
	// Reports whether the row was written.
	Update(ctx context.Context, d *model.MirrorDocument) (bool, error)
}

// HistoryRepository is the append-only import history log.
type HistoryRepository interface {
	// Append stores one run record.
	Append(ctx context.Context, h *model.ImportHistory) error

	// List returns the most recent runs for an instance, newest first.
	List(ctx context.Context, instanceID uuid.UUID, limit int) ([]model.ImportHistory, error)
}
