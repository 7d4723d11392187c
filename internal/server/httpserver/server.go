// Package httpserver is the JSON request gateway. It authenticates bearer
// tokens, validates request fields and maps domain errors onto the
// {error, msg, data} envelope.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/services"
)

// TokenVerifier resolves a bearer token to its subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserDirectory interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*services.Session, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, title, text, owner string) (*models.Post, error)
	ListAll(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id string) (*models.Post, error)
	DeleteOwned(ctx context.Context, id, identifier string) (*models.Post, error)
}

type LikeEngine interface {
	Like(ctx context.Context, postID, identifier string) (*models.Like, error)
	Unlike(ctx context.Context, postID, identifier string) (*models.Like, error)
	CountLikes(ctx context.Context, postID string) (int64, error)
	CanLike(ctx context.Context, postID, identifier string) (bool, error)
}

type AvatarIssuer interface {
	UploadURL(ctx context.Context) (*services.AvatarUpload, error)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Tokens  TokenVerifier
	Users   UserDirectory
	Posts   PostStore
	Likes   LikeEngine
	Avatars AvatarIssuer
	Logger  logging.Logger

	// StrictOwnership binds username_identifier in mutations, and post
	// deletion, to the user behind the token.
	StrictOwnership bool
}

type Server struct {
	Deps
	log     logging.Logger
	handler http.Handler
}

const shutdownTimeout = 5 * time.Second

func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	s := &Server{Deps: d, log: d.Logger.With("module", "http_server")}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", s.handleLogin)
	mux.HandleFunc("POST /user/register", s.handleRegister)
	mux.HandleFunc("GET /get_all_posts", s.handleListPosts)
	mux.HandleFunc("GET /user/get_like_from_post/{post_id}", s.handleCountLikes)
	mux.HandleFunc("GET /user/can_user_like_post/{post_id}/{username_identifier}", s.handleCanLike)
	// Empty trailing segments reach the handlers so they report the missing field.
	mux.HandleFunc("GET /user/get_like_from_post/{$}", s.handleCountLikes)
	mux.HandleFunc("GET /user/can_user_like_post/{post_id}/{$}", s.handleCanLike)

	mux.Handle("POST /user/create_post", s.requireAuth(http.HandlerFunc(s.handleCreatePost)))
	mux.Handle("POST /user/like_a_post", s.requireAuth(http.HandlerFunc(s.handleLike)))
	mux.Handle("DELETE /user/unlike_post", s.requireAuth(http.HandlerFunc(s.handleUnlike)))
	mux.Handle("DELETE /user/delete_post", s.requireAuth(http.HandlerFunc(s.handleDeletePost)))
	mux.Handle("GET /user/get_data/{user_id}", s.requireAuth(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("GET /user/get_data/{$}", s.requireAuth(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("GET /user/profile_picture_upload_url", s.requireAuth(http.HandlerFunc(s.handleAvatarUploadURL)))

	mux.Handle("/", s.fallback(mux))

	s.handler = s.withRequestID(s.withAccessLog(s.recoverer(mux)))
	return s
}

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete}

// fallback answers requests no route matched with the JSON envelope: 405
// with an Allow header when the path exists under another method, 404
// otherwise.
func (s *Server) fallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var allow []string
		for _, m := range routeMethods {
			if m == r.Method {
				continue
			}
			alt := r.Clone(r.Context())
			alt.Method = m
			if _, pattern := mux.Handler(alt); pattern != "/" && pattern != "" {
				allow = append(allow, m)
			}
		}
		if len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
			writeJSON(w, http.StatusMethodNotAllowed, envelope{Error: true, Msg: msgMethodNotAllowed})
			return
		}
		writeJSON(w, http.StatusNotFound, envelope{Error: true, Msg: msgRouteNotFound})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

// Run serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, address string) error {
	listen, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.log.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.log.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
