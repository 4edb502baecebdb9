package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/paperless-mirror/internal/errs"
	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// DocumentRepo implements DocumentRepository using PostgreSQL.
type DocumentRepo struct{ db *DB }

// NewDocumentRepo constructs a document repository.
func NewDocumentRepo(db *DB) *DocumentRepo { return &DocumentRepo{db: db} }

const documentColumns = `id, instance_id, paperless_id, title, content, correspondent_id, tag_ids, document_date, paperless_modified, imported_at`

// Index returns the mirror index of one instance keyed by paperless id.
func (r *DocumentRepo) Index(ctx context.Context, instanceID uuid.UUID) (map[int]model.MirrorIndexEntry, error) {
	const q = `SELECT paperless_id, id, paperless_modified FROM mirror_documents WHERE instance_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]model.MirrorIndexEntry)
	for rows.Next() {
		var (
			pid int
			e   model.MirrorIndexEntry
		)
		if err = rows.Scan(&pid, &e.LocalID, &e.PaperlessModified); err != nil {
			return nil, err
		}
		out[pid] = e
	}
	return out, rows.Err()
}

// FindByPaperlessID selects a mirror row by its remote identity.
func (r *DocumentRepo) FindByPaperlessID(ctx context.Context, instanceID uuid.UUID, paperlessID int) (*model.MirrorDocument, error) {
	q := `SELECT ` + documentColumns + ` FROM mirror_documents WHERE instance_id=$1 AND paperless_id=$2`
	return scanDocument(r.db.Pool.QueryRow(ctx, q, instanceID, paperlessID))
}

// GetByID selects a mirror row by local id.
func (r *DocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.MirrorDocument, error) {
	q := `SELECT ` + documentColumns + ` FROM mirror_documents WHERE id=$1`
	return scanDocument(r.db.Pool.QueryRow(ctx, q, id))
}

// Create inserts a mirror row. A taken (instance_id, paperless_id) pair yields errs.ErrAlreadyExists.
func (r *DocumentRepo) Create(ctx context.Context, d *model.MirrorDocument) error {
	const q = `
INSERT INTO mirror_documents (id, instance_id, paperless_id, title, content, correspondent_id, tag_ids, document_date, paperless_modified, imported_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (instance_id, paperless_id) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q,
		d.ID, d.InstanceID, d.PaperlessID, d.Title, d.Content, d.CorrespondentID,
		nonNilInts(d.TagIDs), nullTime(d.DocumentDate), d.PaperlessModified, d.ImportedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAlreadyExists
	}
	return nil
}

// Update rewrites the mutable fields of a row. The write is skipped when the
// stored modification time is already at or past d.PaperlessModified.
func (r *DocumentRepo) Update(ctx context.Context, d *model.MirrorDocument) (bool, error) {
	const q = `
UPDATE mirror_documents
SET title=$3, content=$4, correspondent_id=$5, tag_ids=$6, document_date=$7, paperless_modified=$8
WHERE id=$1 AND instance_id=$2 AND (paperless_modified IS NULL OR paperless_modified < $8)`
	tag, err := r.db.Pool.Exec(ctx, q,
		d.ID, d.InstanceID, d.Title, d.Content, d.CorrespondentID,
		nonNilInts(d.TagIDs), nullTime(d.DocumentDate), d.PaperlessModified)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanDocument(row pgx.Row) (*model.MirrorDocument, error) {
	var (
		d   model.MirrorDocument
		doc *time.Time
	)
	err := row.Scan(&d.ID, &d.InstanceID, &d.PaperlessID, &d.Title, &d.Content,
		&d.CorrespondentID, &d.TagIDs, &doc, &d.PaperlessModified, &d.ImportedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	d.DocumentDate = derefTime(doc)
	return &d, nil
}
