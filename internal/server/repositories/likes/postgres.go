package likes

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

func (r *PostgresRepository) Insert(ctx context.Context, like *models.Like) (*models.Like, error) {
	query :=
		`INSERT INTO likes (post_id, username_identifier)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, like.PostID, like.UsernameIdentifier).Scan(&like.CreatedAt); err != nil {
		return nil, dbx.Wrap(err)
	}
	return like, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, postID, identifier string) (*models.Like, error) {
	query :=
		`DELETE FROM likes
		 WHERE post_id = $1 AND username_identifier = $2
		 RETURNING created_at
		 `

	like := &models.Like{PostID: postID, UsernameIdentifier: identifier}
	err := r.db.QueryRowContext(ctx, query, postID, identifier).Scan(&like.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap(err)
	}
	return like, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, postID, identifier string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM likes WHERE post_id = $1 AND username_identifier = $2
		 )
		 `

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, postID, identifier).Scan(&ok); err != nil {
		return false, dbx.Wrap(err)
	}
	return ok, nil
}

func (r *PostgresRepository) Count(ctx context.Context, postID string) (int64, error) {
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&n); err != nil {
		return 0, dbx.Wrap(err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, dbx.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.Wrap(err)
	}
	return n, nil
}
