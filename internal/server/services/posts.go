package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PostService is the post store.
type PostService struct {
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func NewPostService(repos repomanager.RepositoryManager, log logging.Logger) *PostService {
	return &PostService{repos: repos, log: log.With("module", "posts")}
}

func (s *PostService) Create(ctx context.Context, title, text, owner string) (*models.Post, error) {
	post := &models.Post{
		ID:                 uuid.NewString(),
		Title:              title,
		TextContent:        text,
		UsernameIdentifier: owner,
	}
	created, err := s.repos.Posts().Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.log.Info(ctx, "post created", "post_id", created.ID, "owner", owner)
	return created, nil
}

// ListAll returns every post, oldest first.
func (s *PostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	list, err := s.repos.Posts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repos.Posts().Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// Delete removes a post and all its likes in one transaction.
func (s *PostService) Delete(ctx context.Context, id string) (*models.Post, error) {
	return s.delete(ctx, id, "")
}

// DeleteOwned is Delete restricted to posts owned by identifier;
// otherwise it fails with common.ErrPostOwnerMismatch.
func (s *PostService) DeleteOwned(ctx context.Context, id, identifier string) (*models.Post, error) {
	return s.delete(ctx, id, identifier)
}

func (s *PostService) delete(ctx context.Context, id, owner string) (*models.Post, error) {
	var deleted *models.Post
	err := s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if owner != "" {
			p, err := repos.Posts().Get(ctx, id)
			if err != nil {
				return err
			}
			if p.UsernameIdentifier != owner {
				return common.ErrPostOwnerMismatch
			}
		}

		n, err := repos.Likes().DeleteByPost(ctx, id)
		if err != nil {
			return err
		}

		p, err := repos.Posts().Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = p
		s.log.Debug(ctx, "likes removed with post", "post_id", id, "count", n)
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, common.ErrPostOwnerMismatch):
		return nil, err
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrPostNotFound
	default:
		return nil, fmt.Errorf("delete post: %w", err)
	}

	s.log.Info(ctx, "post deleted", "post_id", id)
	return deleted, nil
}
