package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// User is a profile as returned by the server.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Identifier     string    `json:"identifier"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

// Post is a published post.
type Post struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	TextContent        string    `json:"text_content"`
	UsernameIdentifier string    `json:"username_identifier"`
	CreatedAt          time.Time `json:"created_at"`
}

// Like is one (post, user) like.
type Like struct {
	PostID             string    `json:"post_id"`
	UsernameIdentifier string    `json:"username_identifier"`
	CreatedAt          time.Time `json:"created_at"`
}

// Session is the result of a successful login.
type Session struct {
	Email string `json:"email"`
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Registration carries the fields of a new account.
type Registration struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Identifier     string `json:"identifier"`
	Password       string `json:"password"`
}

// AvatarUpload is a presigned upload target for a profile picture.
type AvatarUpload struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ObjectURL string `json:"object_url"`
}

type likeBody struct {
	UsernameIdentifier string `json:"username_identifier"`
	PostID             string `json:"post_id"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, r Registration) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/user/register", false, r)
	if err != nil {
		return nil, err
	}
	var u User
	if err := decodeData(env, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/user/login", false, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if len(env.User) == 0 {
		return nil, errors.New("login response has no user")
	}
	var s Session
	if err := json.Unmarshal(env.User, &s); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	c.token = s.Token
	return &s, nil
}

// CreatePost publishes a post as identifier.
func (c *Client) CreatePost(ctx context.Context, title, text, identifier string) (*Post, error) {
	env, err := c.do(ctx, http.MethodPost, "/user/create_post", true, map[string]string{
		"title":               title,
		"text_content":        text,
		"username_identifier": identifier,
	})
	if err != nil {
		return nil, err
	}
	var p Post
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns every post in publication order.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	env, err := c.do(ctx, http.MethodGet, "/get_all_posts", false, nil)
	if err != nil {
		return nil, err
	}
	var list []Post
	if err := decodeData(env, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Like records a like of postID by identifier.
func (c *Client) Like(ctx context.Context, postID, identifier string) (*Like, error) {
	return c.likeOp(ctx, http.MethodPost, "/user/like_a_post", postID, identifier)
}

// Unlike removes a like of postID by identifier.
func (c *Client) Unlike(ctx context.Context, postID, identifier string) (*Like, error) {
	return c.likeOp(ctx, http.MethodDelete, "/user/unlike_post", postID, identifier)
}

func (c *Client) likeOp(ctx context.Context, method, path, postID, identifier string) (*Like, error) {
	env, err := c.do(ctx, method, path, true, likeBody{UsernameIdentifier: identifier, PostID: postID})
	if err != nil {
		return nil, err
	}
	var l Like
	if err := decodeData(env, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeletePost removes a post and its likes.
func (c *Client) DeletePost(ctx context.Context, postID string) (*Post, error) {
	env, err := c.do(ctx, http.MethodDelete, "/user/delete_post", true, map[string]string{"post_id": postID})
	if err != nil {
		return nil, err
	}
	var p Post
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CountLikes returns the number of likes on postID.
func (c *Client) CountLikes(ctx context.Context, postID string) (int64, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/get_like_from_post/"+url.PathEscape(postID), false, nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		NumberOfLikesFromPost int64 `json:"numberOfLikesFromPost"`
	}
	if err := decodeData(env, &out); err != nil {
		return 0, err
	}
	return out.NumberOfLikesFromPost, nil
}

// CanLike reports whether identifier may like postID right now.
func (c *Client) CanLike(ctx context.Context, postID, identifier string) (bool, error) {
	path := "/user/can_user_like_post/" + url.PathEscape(postID) + "/" + url.PathEscape(identifier)
	env, err := c.do(ctx, http.MethodGet, path, false, nil)
	if err != nil {
		return false, err
	}
	var out struct {
		CanUserLikePost bool `json:"canUserLikePost"`
	}
	if err := decodeData(env, &out); err != nil {
		return false, err
	}
	return out.CanUserLikePost, nil
}

// GetUser fetches a profile by id.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/get_data/"+url.PathEscape(userID), true, nil)
	if err != nil {
		return nil, err
	}
	var u User
	if err := decodeData(env, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AvatarUploadURL asks for a presigned URL to upload a profile picture to.
func (c *Client) AvatarUploadURL(ctx context.Context) (*AvatarUpload, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/profile_picture_upload_url", true, nil)
	if err != nil {
		return nil, err
	}
	var a AvatarUpload
	if err := decodeData(env, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
