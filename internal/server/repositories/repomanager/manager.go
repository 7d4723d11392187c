package repomanager

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/repositories/likes"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
)

// Repositories vends one repository per table, all bound to the same
// connection or transaction.
type Repositories interface {
	Users() users.Repository
	Posts() posts.Repository
	Likes() likes.Repository
}

// RepositoryManager owns the store connection.
type RepositoryManager interface {
	Repositories
	RunMigrations(ctx context.Context) error
	// WithTx runs fn with repositories bound to a single transaction,
	// committing when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}
