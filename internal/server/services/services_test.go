package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/microblog/internal/cryptox"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/likes"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// overrideManager swaps single repositories of a memory manager.
type overrideManager struct {
	*repomanager.MemoryRepositoryManager
	users users.Repository
	likes likes.Repository
}

func (m *overrideManager) Users() users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users()
}

func (m *overrideManager) Likes() likes.Repository {
	if m.likes != nil {
		return m.likes
	}
	return m.MemoryRepositoryManager.Likes()
}

type fixture struct {
	repos  repomanager.RepositoryManager
	tokens *auth.TokenService
	users  *UserService
	posts  *PostService
	likes  *LikeService
}

func newFixture(t *testing.T, repos repomanager.RepositoryManager, protector cryptox.PasswordProtector) *fixture {
	t.Helper()
	if repos == nil {
		repos = repomanager.NewMemoryRepositoryManager()
	}
	if protector == nil {
		protector = cryptox.NewBcryptProtector(bcrypt.MinCost)
	}
	tokens, err := auth.NewTokenService("test-secret", 0)
	require.NoError(t, err)

	log := logging.Nop{}
	return &fixture{
		repos:  repos,
		tokens: tokens,
		users:  NewUserService(repos, protector, tokens, log),
		posts:  NewPostService(repos, log),
		likes:  NewLikeService(repos, log),
	}
}

func (f *fixture) register(t *testing.T, email, identifier string) string {
	t.Helper()
	u, err := f.users.Register(context.Background(), Registration{
		Email:      email,
		Identifier: identifier,
		Name:       identifier,
		Password:   "pw-" + identifier,
	})
	require.NoError(t, err)
	return u.ID
}
