package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

const (
	emailConstraint      = "users_email_key"
	identifierConstraint = "users_identifier_key"
)

const selectUser = `SELECT id, email, identifier, name, profile_picture, password, created_at FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, identifier, name, profile_picture, password)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Identifier, user.Name, user.ProfilePicture, user.Password).Scan(&user.CreatedAt)

	if err != nil {
		err = dbx.Wrap(err)
		if errors.Is(err, common.ErrUniqueViolation) {
			switch dbx.ConstraintName(err) {
			case emailConstraint:
				return nil, fmt.Errorf("%w: %w", common.ErrDuplicateEmail, err)
			case identifierConstraint:
				return nil, fmt.Errorf("%w: %w", common.ErrDuplicateIdentifier, err)
			}
		}
		return nil, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE identifier = $1`, identifier)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Identifier, &user.Name, &user.ProfilePicture, &user.Password, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.Wrap(err)
	}

	return user, nil
}
