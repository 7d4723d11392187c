package posts

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists posts. Get and Delete return common.ErrorNotFound
// when the id matches no row. List returns posts in ascending Seq order.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id string) (*models.Post, error)
}
