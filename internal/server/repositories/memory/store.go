// Package memory implements the repository contracts in process memory.
// A single mutex guards all tables, and the same uniqueness and
// referential rules as the Postgres schema are enforced: unique email and
// identifier, one like per (post, identifier), likes require an existing
// post and are removed together with it.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/models"
)

type likeKey struct {
	postID     string
	identifier string
}

// Store holds every table. The zero value is not usable; call NewStore.
type Store struct {
	mu sync.Mutex

	users        map[string]models.User
	byEmail      map[string]string
	byIdentifier map[string]string

	posts   map[string]models.Post
	lastSeq int64

	likes map[likeKey]time.Time

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]models.User),
		byEmail:      make(map[string]string),
		byIdentifier: make(map[string]string),
		posts:        make(map[string]models.Post),
		likes:        make(map[likeKey]time.Time),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// UserRepository is the users view of a Store.
type UserRepository struct{ s *Store }

// PostRepository is the posts view of a Store.
type PostRepository struct{ s *Store }

// LikeRepository is the likes view of a Store.
type LikeRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }
func (s *Store) Likes() *LikeRepository { return &LikeRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	if _, ok := s.byIdentifier[user.Identifier]; ok {
		return nil, common.ErrDuplicateIdentifier
	}

	user.CreatedAt = s.now()
	stored := *user
	stored.Password = append([]byte(nil), user.Password...)
	s.users[user.ID] = stored
	s.byEmail[user.Email] = user.ID
	s.byIdentifier[user.Identifier] = user.ID
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.userLocked(id)
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.userLocked(r.s.byEmail[email])
}

func (r *UserRepository) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.userLocked(r.s.byIdentifier[identifier])
}

func (s *Store) userLocked(id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Password = append([]byte(nil), u.Password...)
	return &u, nil
}

func (r *PostRepository) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; ok {
		return nil, common.ErrUniqueViolation
	}
	s.lastSeq++
	post.Seq = s.lastSeq
	post.CreatedAt = s.now()
	s.posts[post.ID] = *post
	return post, nil
}

func (r *PostRepository) Get(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Seq != result[j].Seq {
			return result[i].Seq < result[j].Seq
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *PostRepository) Delete(_ context.Context, id string) (*models.Post, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(s.posts, id)
	for k := range s.likes {
		if k.postID == id {
			delete(s.likes, k)
		}
	}
	return &p, nil
}

func (r *LikeRepository) Insert(_ context.Context, like *models.Like) (*models.Like, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[like.PostID]; !ok {
		return nil, common.ErrForeignKeyViolation
	}
	k := likeKey{postID: like.PostID, identifier: like.UsernameIdentifier}
	if _, ok := s.likes[k]; ok {
		return nil, common.ErrUniqueViolation
	}
	like.CreatedAt = s.now()
	s.likes[k] = like.CreatedAt
	return like, nil
}

func (r *LikeRepository) Delete(_ context.Context, postID, identifier string) (*models.Like, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := likeKey{postID: postID, identifier: identifier}
	created, ok := s.likes[k]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(s.likes, k)
	return &models.Like{PostID: postID, UsernameIdentifier: identifier, CreatedAt: created}, nil
}

func (r *LikeRepository) Exists(_ context.Context, postID, identifier string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.likes[likeKey{postID: postID, identifier: identifier}]
	return ok, nil
}

func (r *LikeRepository) Count(_ context.Context, postID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for k := range r.s.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

func (r *LikeRepository) DeleteByPost(_ context.Context, postID string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k := range s.likes {
		if k.postID == postID {
			delete(s.likes, k)
			n++
		}
	}
	return n, nil
}
