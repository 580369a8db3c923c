package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vacq/booking-service/internal/domain"
)

var listVacCentersSQL = regexp.QuoteMeta(`SELECT id, name, tel FROM vac_centers ORDER BY id`)

func TestVacCenterRepositoryList_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(listVacCentersSQL).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "tel"}).
			AddRow(int64(1), "Bang Sue Grand Station", "02-000-0000").
			AddRow(int64(2), "Central World", nil),
	)

	centers, err := NewVacCenterRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.VacCenter{
		{ID: 1, Name: "Bang Sue Grand Station", Tel: "02-000-0000"},
		{ID: 2, Name: "Central World"},
	}, centers)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVacCenterRepositoryList_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(listVacCentersSQL).WillReturnError(errors.New("connection refused"))

	_, err = NewVacCenterRepository(db).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestVacCenterRepositoryList_RowError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(listVacCentersSQL).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "tel"}).
			AddRow(int64(1), "A", "1").
			RowError(0, errors.New("broken row")),
	)

	_, err = NewVacCenterRepository(db).List(context.Background())
	require.Error(t, err)
}

func TestVacCenterRepositoryList_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE vac_centers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, tel TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO vac_centers (id, name, tel) VALUES (2, 'Siam Paragon', NULL), (1, 'MBK', '02-111-1111')`)
	require.NoError(t, err)

	centers, err := NewVacCenterRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.Equal(t, "MBK", centers[0].Name)
	assert.Equal(t, "", centers[1].Tel)
}

func TestVacCenterRepositoryList_NoDatabase(t *testing.T) {
	centers, err := NewVacCenterRepository(nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, centers)
	assert.Empty(t, centers)
}
