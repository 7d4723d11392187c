package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
)

// LikeService is the like engine. Each (post, identifier) pair is either
// liked or not; the store's primary key makes repeated likes fail even
// under concurrent requests.
type LikeService struct {
	repos repomanager.RepositoryManager
	log   logging.Logger
}

func NewLikeService(repos repomanager.RepositoryManager, log logging.Logger) *LikeService {
	return &LikeService{repos: repos, log: log.With("module", "likes")}
}

func (s *LikeService) requirePost(ctx context.Context, postID string) error {
	_, err := s.repos.Posts().Get(ctx, postID)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	return nil
}

// Like moves the pair from NotLiked to Liked.
func (s *LikeService) Like(ctx context.Context, postID, identifier string) (*models.Like, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.repos.Likes().Exists(ctx, postID, identifier)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}
	if liked {
		return nil, common.ErrAlreadyLiked
	}

	like, err := s.repos.Likes().Insert(ctx, &models.Like{PostID: postID, UsernameIdentifier: identifier})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrUniqueViolation):
		return nil, common.ErrAlreadyLiked
	case errors.Is(err, common.ErrForeignKeyViolation):
		return nil, common.ErrPostNotFound
	default:
		return nil, fmt.Errorf("insert like: %w", err)
	}

	s.log.Debug(ctx, "post liked", "post_id", postID, "identifier", identifier)
	return like, nil
}

// Unlike moves the pair from Liked to NotLiked.
func (s *LikeService) Unlike(ctx context.Context, postID, identifier string) (*models.Like, error) {
	like, err := s.repos.Likes().Delete(ctx, postID, identifier)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrNotLiked
	}
	if err != nil {
		return nil, fmt.Errorf("delete like: %w", err)
	}
	s.log.Debug(ctx, "post unliked", "post_id", postID, "identifier", identifier)
	return like, nil
}

func (s *LikeService) CountLikes(ctx context.Context, postID string) (int64, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return 0, err
	}
	n, err := s.repos.Likes().Count(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

// CanLike reports whether the post exists and is not yet liked by
// identifier.
func (s *LikeService) CanLike(ctx context.Context, postID, identifier string) (bool, error) {
	err := s.requirePost(ctx, postID)
	if errors.Is(err, common.ErrPostNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	liked, err := s.repos.Likes().Exists(ctx, postID, identifier)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return !liked, nil
}
