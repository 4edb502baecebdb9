package postgres

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
)

// HistoryRepo implements HistoryRepository using PostgreSQL.
type HistoryRepo struct{ db *DB }

// NewHistoryRepo constructs an import history repository.
func NewHistoryRepo(db *DB) *HistoryRepo { return &HistoryRepo{db: db} }

// Append inserts one run record.
func (r *HistoryRepo) Append(ctx context.Context, h *model.ImportHistory) error {
	const q = `
INSERT INTO import_history (id, instance_id, imported, updated, unchanged, total_in_catalog, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.Pool.Exec(ctx, q, h.ID, h.InstanceID, h.Imported, h.Updated, h.Unchanged, h.TotalInCatalog, h.CreatedAt)
	return err
}

// List returns up to limit runs of an instance, newest first.
func (r *HistoryRepo) List(ctx context.Context, instanceID uuid.UUID, limit int) ([]model.ImportHistory, error) {
	const q = `
SELECT id, instance_id, imported, updated, unchanged, total_in_catalog, created_at
FROM import_history
WHERE instance_id=$1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, instanceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImportHistory
	for rows.Next() {
		var h model.ImportHistory
		if err = rows.Scan(&h.ID, &h.InstanceID, &h.Imported, &h.Updated, &h.Unchanged, &h.TotalInCatalog, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
