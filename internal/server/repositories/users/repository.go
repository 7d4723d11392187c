package users

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists user accounts. Lookups return common.ErrorNotFound
// when no row matches; Create reports common.ErrDuplicateEmail or
// common.ErrDuplicateIdentifier when a unique key is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}
