package postgres

import (
	"context"
	"errors"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// InstanceRepo implements InstanceRepository using PostgreSQL.
type InstanceRepo struct{ db *DB }

// NewInstanceRepo constructs an instance repository.
func NewInstanceRepo(db *DB) *InstanceRepo { return &InstanceRepo{db: db} }

// Create inserts a new instance row.
func (r *InstanceRepo) Create(ctx context.Context, in *repository.SealedInstance) error {
	const q = `
INSERT INTO instances (id, name, base_url, token_enc, import_filter_tags, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Pool.Exec(ctx, q, in.ID, in.Name, in.BaseURL, in.TokenEnc, nonNilInts(in.ImportFilterTags), in.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Get selects an instance by ID.
func (r *InstanceRepo) Get(ctx context.Context, id uuid.UUID) (*repository.SealedInstance, error) {
	const q = `
SELECT id, name, base_url, token_enc, import_filter_tags, created_at
FROM instances WHERE id=$1`
	var in repository.SealedInstance
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&in.ID, &in.Name, &in.BaseURL, &in.TokenEnc, &in.ImportFilterTags, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &in, nil
}

// List returns all instances ordered by name.
func (r *InstanceRepo) List(ctx context.Context) ([]repository.SealedInstance, error) {
	const q = `
SELECT id, name, base_url, token_enc, import_filter_tags, created_at
FROM instances ORDER BY name`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.SealedInstance
	for rows.Next() {
		var in repository.SealedInstance
		if err = rows.Scan(&in.ID, &in.Name, &in.BaseURL, &in.TokenEnc, &in.ImportFilterTags, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// SetFilterTags replaces the import filter of an instance.
func (r *InstanceRepo) SetFilterTags(ctx context.Context, id uuid.UUID, tags []int) error {
	const q = `UPDATE instances SET import_filter_tags=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, nonNilInts(tags))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
