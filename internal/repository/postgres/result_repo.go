package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ResultRepo implements ResultRepository using PostgreSQL.
type ResultRepo struct{ db *DB }

// NewResultRepo constructs a processing result repository.
func NewResultRepo(db *DB) *ResultRepo { return &ResultRepo{db: db} }

// Save inserts a processing result; changes are stored as jsonb.
func (r *ResultRepo) Save(ctx context.Context, res *model.ProcessingResult) error {
	raw, err := json.Marshal(res.Changes)
	if err != nil {
		return err
	}
	const q = `INSERT INTO processing_results (id, document_id, changes, created_at) VALUES ($1,$2,$3,$4)`
	if _, err = r.db.Pool.Exec(ctx, q, res.ID, res.DocumentID, raw, res.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetLatest returns the newest result of a document.
func (r *ResultRepo) GetLatest(ctx context.Context, documentID uuid.UUID) (*model.ProcessingResult, error) {
	const q = `
SELECT id, document_id, changes, created_at
FROM processing_results
WHERE document_id=$1
ORDER BY created_at DESC
LIMIT 1`
	var (
		res model.ProcessingResult
		raw []byte
	)
	if err := r.db.Pool.QueryRow(ctx, q, documentID).Scan(&res.ID, &res.DocumentID, &raw, &res.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &res.Changes); err != nil {
		return nil, err
	}
	return &res, nil
}
