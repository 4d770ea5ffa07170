package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/dbx"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery   = `(?s)^INSERT\s+INTO\s+posts\s*\(title,\s*text,\s*media_url,\s*created_by_user_id,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`
	selectByOwner = `(?s)^SELECT\s+id,\s*title,\s*text,\s*media_url,\s*created_by_user_id,\s*created_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE\s+AND\s+created_by_user_id\s*=\s*\$2$`
	selectByID    = `(?s)^SELECT\s+id,\s*title,\s*text,\s*media_url,\s*created_by_user_id,\s*created_at\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+AND\s+is_deleted\s*=\s*FALSE$`
)

var postColumns = []string{"id", "title", "text", "media_url", "created_by_user_id", "created_at"}

func newRepoWithMock(t *testing.T, dialect dbx.Dialect) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dialect), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(insertQuery).
		WithArgs("t", "", "videos", int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	got, err := repo.Create(context.Background(), &models.Post{Title: "t", MediaURL: "videos", CreatedByUserID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{Title: "t", MediaURL: "videos", CreatedByUserID: 1})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGet_ByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(selectByOwner).
		WithArgs(int64(12), int64(1)).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(int64(12), "t", "d", "videos", int64(1), created))

	got, err := repo.Get(context.Background(), Filter{ID: 12, CreatedByUserID: 1})
	require.NoError(t, err)
	assert.Equal(t, &models.Post{
		ID: 12, Title: "t", Text: "d", MediaURL: "videos", CreatedByUserID: 1, CreatedAt: created,
	}, got)
}

func TestGet_AnyOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(selectByID).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(int64(7), "t", "", "videos", int64(3), time.Now()))

	got, err := repo.Get(context.Background(), Filter{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CreatedByUserID)
}

func TestGet_SQLitePlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectSQLite)

	q := `(?s)WHERE\s+id\s*=\s*\?\s+AND\s+is_deleted\s*=\s*FALSE\s+AND\s+created_by_user_id\s*=\s*\?$`
	mock.ExpectQuery(q).
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), Filter{ID: 1, CreatedByUserID: 2})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(selectByOwner).
		WithArgs(int64(99), int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), Filter{ID: 99, CreatedByUserID: 1})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(selectByOwner).
		WithArgs(int64(1), int64(1)).
		WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), Filter{ID: 1, CreatedByUserID: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "db error: db err")
}
