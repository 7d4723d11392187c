package posts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (id, title, text_content, username_identifier)
		 VALUES ($1, $2, $3, $4)
		 RETURNING seq, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.TextContent, post.UsernameIdentifier).Scan(&post.Seq, &post.CreatedAt)
	if err != nil {
		return nil, dbx.Wrap(err)
	}

	return post, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT id, seq, title, text_content, username_identifier, created_at FROM posts
		 WHERE id = $1
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Seq, &post.Title, &post.TextContent, &post.UsernameIdentifier, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap(err)
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	query :=
		`SELECT id, seq, title, text_content, username_identifier, created_at FROM posts
		 ORDER BY seq ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Wrap(err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.Seq, &post.Title, &post.TextContent, &post.UsernameIdentifier, &post.CreatedAt); err != nil {
			return nil, dbx.Wrap(err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap(err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 RETURNING id, seq, title, text_content, username_identifier, created_at
		 `

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Seq, &post.Title, &post.TextContent, &post.UsernameIdentifier, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap(err)
	}

	return post, nil
}
