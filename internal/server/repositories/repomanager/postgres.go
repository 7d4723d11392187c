// Package repomanager provides RepositoryManager implementations for
// PostgreSQL (migrations via goose) and for the in-process store.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/migrations"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/likes"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// postgresRepositories binds every repository to one DBTX.
type postgresRepositories struct {
	db dbx.DBTX
}

func (r postgresRepositories) Users() users.Repository { return users.NewPostgresRepository(r.db) }
func (r postgresRepositories) Posts() posts.Repository { return posts.NewPostgresRepository(r.db) }
func (r postgresRepositories) Likes() likes.Repository { return likes.NewPostgresRepository(r.db) }

// PostgresRepositoryManager vends PostgreSQL-backed repositories and
// exposes a schema migration hook.
type PostgresRepositoryManager struct {
	postgresRepositories
	db *sql.DB
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// OpenPostgres opens a pgx connection pool for dsn and checks it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

// NewPostgresRepositoryManager wraps an already opened database.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{postgresRepositories: postgresRepositories{db: db}, db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, postgresRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
