package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/microblog/internal/common"
)

const (
	msgInternal     = "Internal server error, try again later"
	msgAccessDenied = "Access denied"
	msgInvalidToken = "Invalid token"
	msgPostNotFound = "Post not found, try again later or test another post id"

	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
	msgAvatarsDisabled  = "Profile picture uploads are not available"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Error bool   `json:"error"`
	Msg   string `json:"msg,omitempty"`
	Data  any    `json:"data,omitempty"`
	User  any    `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

// decodeBody reads a JSON object into dst. An empty body leaves dst zero
// so that field checks report what is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return common.FieldInvalid("request body")
}

// errorResponse maps an error onto a status code and client message.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, validationMessage(err)
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, msgAccessDenied
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, common.ErrIdentifierMismatch):
		return http.StatusForbidden, "The username identifier does not belong to the caller"
	case errors.Is(err, common.ErrPostOwnerMismatch):
		return http.StatusForbidden, "The post does not belong to the caller"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrAuthFailed):
		return http.StatusNotFound, "User or password invalid"
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusUnprocessableEntity, "Email already in use"
	case errors.Is(err, common.ErrDuplicateIdentifier):
		return http.StatusUnprocessableEntity, "Username already in use"
	case errors.Is(err, common.ErrAlreadyLiked):
		return http.StatusUnprocessableEntity, "Post already liked"
	case errors.Is(err, common.ErrNotLiked):
		return http.StatusUnprocessableEntity, "Post not liked"
	case errors.Is(err, common.ErrPostNotFound):
		return http.StatusNotFound, msgPostNotFound
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// validationMessage returns the client text of a validation error.
func validationMessage(err error) string {
	var fe *common.FieldError
	if errors.As(err, &fe) && fe.Msg != "" {
		return fe.Msg
	}
	return "Invalid request"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorResponse(err)
	if status == http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()))
	}
	writeJSON(w, status, envelope{Error: true, Msg: msg})
}

// writePostError is writeError for routes whose contract reports a missing
// post as a server failure (like, delete, like count).
func (s *Server) writePostError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrPostNotFound) {
		writeJSON(w, http.StatusInternalServerError, envelope{Error: true, Msg: msgPostNotFound})
		return
	}
	s.writeError(w, r, err)
}
