package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"github.com/google/uuid"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	Email string `json:"email"`
	ID    string `json:"id"`
	Token string `json:"token"`
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Identifier     string `json:"identifier"`
	Password       string `json:"password"`
}

type createPostRequest struct {
	Title              string `json:"title"`
	TextContent        string `json:"text_content"`
	UsernameIdentifier string `json:"username_identifier"`
}

type likeRequest struct {
	UsernameIdentifier string `json:"username_identifier"`
	PostID             string `json:"post_id"`
}

type deletePostRequest struct {
	PostID string `json:"post_id"`
}

type likeCount struct {
	PostID                string `json:"postId"`
	NumberOfLikesFromPost int64  `json:"numberOfLikesFromPost"`
}

type canLike struct {
	CanUserLikePost bool `json:"canUserLikePost"`
}

// field pairs a submitted value with the name used in the "is required"
// message.
type field struct {
	value string
	name  string
}

// required returns a validation error for the first empty field.
func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return common.FieldRequired(f.name)
		}
	}
	return nil
}

func validPostID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.FieldInvalid("post id")
	}
	return nil
}

// pathParam returns a path segment with an optional "name=" prefix removed,
// so both /x/post_id=abc and /x/abc address the same value.
func pathParam(r *http.Request, name string) string {
	v := r.PathValue(name)
	if rest, ok := strings.CutPrefix(v, name+"="); ok {
		return rest
	}
	return v
}

// caller loads the user behind the verified token.
func (s *Server) caller(r *http.Request) (*models.User, error) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		return nil, common.ErrMissingToken
	}
	u, err := s.Users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// actAs checks that the caller may act for identifier.
func (s *Server) actAs(r *http.Request, identifier string) error {
	if !s.StrictOwnership {
		return nil
	}
	u, err := s.caller(r)
	if err != nil {
		return err
	}
	if u.Identifier != identifier {
		return common.ErrIdentifierMismatch
	}
	return nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(field{req.Password, "password"}, field{req.Email, "email"}); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{User: loginUser{
		Email: session.User.Email,
		ID:    session.User.ID,
		Token: session.Token,
	}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(
		field{req.Name, "name"},
		field{req.Email, "email"},
		field{req.ProfilePicture, "profile picture"},
		field{req.Identifier, "username"},
		field{req.Password, "password"},
	); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.Users.Register(r.Context(), services.Registration{
		Email:          req.Email,
		Identifier:     req.Identifier,
		Name:           req.Name,
		ProfilePicture: req.ProfilePicture,
		Password:       req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(
		field{req.Title, "title of the post"},
		field{req.TextContent, "content of the post"},
		field{req.UsernameIdentifier, "username identifier of the post"},
	); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.actAs(r, req.UsernameIdentifier); err != nil {
		s.writeError(w, r, err)
		return
	}

	post, err := s.Posts.Create(r.Context(), req.Title, req.TextContent, req.UsernameIdentifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, post)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.Posts.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

// readLike decodes and checks the body shared by like and unlike.
func (s *Server) readLike(w http.ResponseWriter, r *http.Request) (likeRequest, error) {
	var req likeRequest
	if err := decodeBody(w, r, &req); err != nil {
		return req, err
	}
	if err := required(field{req.UsernameIdentifier, "username identifier"}, field{req.PostID, "post id"}); err != nil {
		return req, err
	}
	if err := validPostID(req.PostID); err != nil {
		return req, err
	}
	return req, s.actAs(r, req.UsernameIdentifier)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	req, err := s.readLike(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	like, err := s.Likes.Like(r.Context(), req.PostID, req.UsernameIdentifier)
	if err != nil {
		s.writePostError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, like)
}

func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	req, err := s.readLike(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	like, err := s.Likes.Unlike(r.Context(), req.PostID, req.UsernameIdentifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, like)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	var req deletePostRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required(field{req.PostID, "post id"}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validPostID(req.PostID); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		post *models.Post
		err  error
	)
	if s.StrictOwnership {
		var u *models.User
		if u, err = s.caller(r); err == nil {
			post, err = s.Posts.DeleteOwned(r.Context(), req.PostID, u.Identifier)
		}
	} else {
		post, err = s.Posts.Delete(r.Context(), req.PostID)
	}
	if err != nil {
		s.writePostError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, post)
}

func (s *Server) handleCountLikes(w http.ResponseWriter, r *http.Request) {
	postID := pathParam(r, "post_id")
	if err := required(field{postID, "post id"}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validPostID(postID); err != nil {
		s.writeError(w, r, err)
		return
	}

	n, err := s.Likes.CountLikes(r.Context(), postID)
	if err != nil {
		s.writePostError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, likeCount{PostID: postID, NumberOfLikesFromPost: n})
}

func (s *Server) handleCanLike(w http.ResponseWriter, r *http.Request) {
	postID := pathParam(r, "post_id")
	identifier := pathParam(r, "username_identifier")
	if err := required(field{identifier, "username identifier"}, field{postID, "post id"}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validPostID(postID); err != nil {
		s.writeError(w, r, err)
		return
	}

	ok, err := s.Likes.CanLike(r.Context(), postID, identifier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, canLike{CanUserLikePost: ok})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if err := required(field{userID, "user id"}); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.Users.FindByID(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, user)
}

func (s *Server) handleAvatarUploadURL(w http.ResponseWriter, r *http.Request) {
	if s.Avatars == nil {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Error: true, Msg: msgAvatarsDisabled})
		return
	}
	up, err := s.Avatars.UploadURL(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, up)
}
