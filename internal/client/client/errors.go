package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/microblog/internal/common"
)

// ErrUnavailable is wrapped around transport failures.
var ErrUnavailable = errors.New("server unavailable")

// ErrNotLoggedIn is returned by calls that need a token when none is set.
var ErrNotLoggedIn = fmt.Errorf("%w: not logged in", common.ErrorUnauthorized)

// APIError is an {error:true} response from the server.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Msg, e.Status)
}

// knownMessages ties server messages to the error they were produced from.
var knownMessages = map[string]error{
	"Access denied":            common.ErrMissingToken,
	"Invalid token":            common.ErrInvalidToken,
	"User or password invalid": common.ErrAuthFailed,
	"Email already in use":     common.ErrDuplicateEmail,
	"Username already in use":  common.ErrDuplicateIdentifier,
	"Post already liked":       common.ErrAlreadyLiked,
	"Post not liked":           common.ErrNotLiked,
	"User not found":           common.ErrUserNotFound,
	"Post not found, try again later or test another post id": common.ErrPostNotFound,
	"The username identifier does not belong to the caller":   common.ErrIdentifierMismatch,
	"The post does not belong to the caller":                  common.ErrPostOwnerMismatch,
}

// Unwrap returns the sentinel the server most likely reported.
func (e *APIError) Unwrap() error {
	if err, ok := knownMessages[e.Msg]; ok {
		return err
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusUnprocessableEntity:
		return common.ErrorValidation
	default:
		return common.ErrorInternal
	}
}
