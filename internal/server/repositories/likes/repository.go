package likes

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// Repository persists likes keyed by (post id, username identifier).
//
// Insert reports common.ErrUniqueViolation when the pair already exists and
// common.ErrForeignKeyViolation when the post does not. Delete returns the
// removed row, or common.ErrorNotFound when there was none.
type Repository interface {
	Insert(ctx context.Context, like *models.Like) (*models.Like, error)
	Delete(ctx context.Context, postID, identifier string) (*models.Like, error)
	Exists(ctx context.Context, postID, identifier string) (bool, error)
	Count(ctx context.Context, postID string) (int64, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}
