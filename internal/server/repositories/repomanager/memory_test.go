package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_SharesOneStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx))

	_, err := m.Posts().Create(ctx, &models.Post{ID: "p"})
	require.NoError(t, err)

	err = m.WithTx(ctx, func(ctx context.Context, repos Repositories) error {
		_, err := repos.Likes().Insert(ctx, &models.Like{PostID: "p", UsernameIdentifier: "alice"})
		return err
	})
	require.NoError(t, err)

	n, err := m.Likes().Count(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, m.Close())
}
