package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ RepositoryManager = (*MemoryRepositoryManager)(nil)
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Posts())
	assert.NotNil(t, m.Likes())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(context.Background()); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+likes`).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := m.WithTx(context.Background(), func(ctx context.Context, repos Repositories) error {
		_, err := repos.Likes().DeleteByPost(ctx, "p-1")
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = m.WithTx(context.Background(), func(ctx context.Context, repos Repositories) error {
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_PingFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		return db, nil
	}
	defer func() { sqlOpen = orig }()

	_, err = OpenPostgres(context.Background(), "postgres://x")
	assert.ErrorContains(t, err, "ping database: refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	defer func() { sqlOpen = orig }()

	m, err := OpenPostgres(context.Background(), "postgres://x")
	require.NoError(t, err)
	assert.NotNil(t, m.Posts())
	mock.ExpectClose()
	require.NoError(t, m.Close())
}
