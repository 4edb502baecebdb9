package postgres

import (
	"context"
	"testing"

	"github.com/and161185/paperless-mirror/internal/model"
	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestTagNameRepo_Remember(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTagNameRepo(db)
	inst := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`INSERT INTO tag_names .+ unnest\(\$2::integer\[\], \$3::text\[\]\) .+ ON CONFLICT \(instance_id, tag_id\) DO UPDATE`).
		WithArgs(inst, []int{1, 2}, []string{"Finance", "Archive"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	err := r.Remember(context.Background(), inst, []model.Tag{{ID: 1, Name: "Finance"}, {ID: 2, Name: "Archive"}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagNameRepo_EmptyInputsSkipDB(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTagNameRepo(db)
	inst := uuid.Must(uuid.NewV4())

	require.NoError(t, r.Remember(context.Background(), inst, nil))
	m, err := r.Lookup(context.Background(), inst, nil)
	require.NoError(t, err)
	require.Empty(t, m)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagNameRepo_Lookup(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTagNameRepo(db)
	inst := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT tag_id, name FROM tag_names WHERE instance_id=\$1 AND tag_id = ANY\(\$2\)`).
		WithArgs(inst, []int{30, 31}).
		WillReturnRows(pgxmock.NewRows([]string{"tag_id", "name"}).AddRow(30, "Old Receipts"))

	m, err := r.Lookup(context.Background(), inst, []int{30, 31})
	require.NoError(t, err)
	require.Equal(t, map[int]string{30: "Old Receipts"}, m)
}
