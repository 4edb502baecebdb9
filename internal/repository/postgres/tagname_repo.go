package postgres

import (
	"context"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TagNameRepo implements TagNameRepository using PostgreSQL.
type TagNameRepo struct{ db *DB }

// NewTagNameRepo constructs a tag name repository.
func NewTagNameRepo(db *DB) *TagNameRepo { return &TagNameRepo{db: db} }

// Remember upserts the names of a freshly fetched catalog.
func (r *TagNameRepo) Remember(ctx context.Context, instanceID uuid.UUID, tags []model.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	ids := make([]int, len(tags))
	names := make([]string, len(tags))
	for i, t := range tags {
		ids[i], names[i] = t.ID, t.Name
	}
	const q = `
INSERT INTO tag_names (instance_id, tag_id, name, seen_at)
SELECT $1, t.id, t.name, now() FROM unnest($2::integer[], $3::text[]) AS t(id, name)
ON CONFLICT (instance_id, tag_id) DO UPDATE SET name=EXCLUDED.name, seen_at=EXCLUDED.seen_at`
	_, err := r.db.Pool.Exec(ctx, q, instanceID, ids, names)
	return err
}

// Lookup returns last-known names for ids. Unknown ids are absent from the map.
func (r *TagNameRepo) Lookup(ctx context.Context, instanceID uuid.UUID, ids []int) (map[int]string, error) {
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const q = `SELECT tag_id, name FROM tag_names WHERE instance_id=$1 AND tag_id = ANY($2)`
	rows, err := r.db.Pool.Query(ctx, q, instanceID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int
			name string
		)
		if err = rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}
