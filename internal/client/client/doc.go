// Package client is a typed client for the microblog HTTP API.
//
// Server errors come back as *APIError. APIError unwraps to the matching
// sentinel from internal/common, so callers can test
// errors.Is(err, common.ErrAlreadyLiked) or errors.Is(err, common.ErrorNotFound)
// the same way server code does. Transport failures wrap ErrUnavailable.
package client
