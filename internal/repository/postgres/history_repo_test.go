package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepo_Append(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)

	h := &model.ImportHistory{
		ID:             uuid.Must(uuid.NewV4()),
		InstanceID:     uuid.Must(uuid.NewV4()),
		Imported:       362,
		Updated:        0,
		Unchanged:      0,
		TotalInCatalog: 362,
		CreatedAt:      time.Now().UTC(),
	}
	mock.ExpectExec(`INSERT INTO import_history \(id, instance_id, imported, updated, unchanged, total_in_catalog, created_at\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7\)`).
		WithArgs(h.ID, h.InstanceID, 362, 0, 0, 362, h.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Append(context.Background(), h))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)

	inst := uuid.Must(uuid.NewV4())
	h1, h2 := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, instance_id, imported, updated, unchanged, total_in_catalog, created_at FROM import_history WHERE instance_id=\$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(inst, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "instance_id", "imported", "updated", "unchanged", "total_in_catalog", "created_at"}).
			AddRow(h2, inst, 91, 0, 362, 453, now).
			AddRow(h1, inst, 362, 0, 0, 362, now.Add(-time.Hour)))

	out, err := r.List(context.Background(), inst, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, h2, out[0].ID)
	require.Equal(t, 453, out[0].TotalInCatalog)
}

func TestHistoryRepo_List_QueryErr(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewHistoryRepo(db)
	inst := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM import_history`).WithArgs(inst, 5).WillReturnError(errors.New("q-fail"))
	_, err := r.List(context.Background(), inst, 5)
	require.Error(t, err)
}
