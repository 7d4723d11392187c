package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{"id", "seq", "title", "text_content", "username_identifier", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	q := `(?s)^INSERT\s+INTO\s+posts\s*\(id,\s*title,\s*text_content,\s*username_identifier\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+seq,\s*created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("p-1", "Hi", "hello", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"seq", "created_at"}).AddRow(int64(3), created))

	got, err := repo.Create(context.Background(), &models.Post{ID: "p-1", Title: "Hi", TextContent: "hello", UsernameIdentifier: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Seq)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+posts`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{ID: "p-1"})
	assert.EqualError(t, err, "db error: db down")
}

func TestGet(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*seq,.*FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow("p-1", int64(1), "Hi", "hello", "alice", now))
	mock.ExpectQuery(`FROM\s+posts\s+WHERE\s+id`).
		WithArgs("p-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM\s+posts\s+WHERE\s+id`).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	got, err := repo.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UsernameIdentifier)

	_, err = repo.Get(context.Background(), "p-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_OrderedBySeq(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM\s+posts\s+ORDER\s+BY\s+seq\s+ASC,\s*id\s+ASC`).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow("p-1", int64(1), "a", "x", "alice", now).
			AddRow("p-2", int64(2), "b", "y", "bob", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-1", got[0].ID)
	assert.Equal(t, "p-2", got[1].ID)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+posts\s+ORDER\s+BY`).WillReturnRows(sqlmock.NewRows(postColumns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_ScanError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+posts\s+ORDER\s+BY`).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow("p-1", "not-a-number", "a", "x", "alice", time.Now()))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "db error")
}

func TestDelete(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*seq,\s*title,\s*text_content,\s*username_identifier,\s*created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow("p-1", int64(1), "Hi", "hello", "alice", now))
	mock.ExpectQuery(q).
		WithArgs("p-1").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Delete(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Title)

	_, err = repo.Delete(context.Background(), "p-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
