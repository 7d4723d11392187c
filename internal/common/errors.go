// Package common defines sentinel errors and constants shared by the server,
// the HTTP gateway and the API client. Callers should match errors with
// errors.Is: domain errors wrap one of the category errors, so both the
// specific and the category error match.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Categories. Each maps to one HTTP status class at the gateway.
var (
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorNotFound     = errors.New("not found")
	ErrorConflict     = errors.New("conflict")
	ErrorInternal     = errors.New("internal error")
)

// Auth errors.
var (
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrMissingToken = fmt.Errorf("%w: missing token", ErrorUnauthorized)

	// ErrAuthFailed is returned for both an unknown email and a wrong password.
	ErrAuthFailed = errors.New("user or password invalid")
)

// User directory errors.
var (
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrorNotFound)
	ErrDuplicateEmail      = fmt.Errorf("%w: email already in use", ErrorConflict)
	ErrDuplicateIdentifier = fmt.Errorf("%w: username already in use", ErrorConflict)
	ErrIdentifierMismatch  = fmt.Errorf("%w: identifier does not belong to the caller", ErrorForbidden)
	ErrPostOwnerMismatch   = fmt.Errorf("%w: post does not belong to the caller", ErrorForbidden)
)

// Post and like errors.
var (
	ErrPostNotFound = fmt.Errorf("%w: post", ErrorNotFound)
	ErrAlreadyLiked = fmt.Errorf("%w: post already liked", ErrorConflict)
	ErrNotLiked     = fmt.Errorf("%w: post not liked", ErrorConflict)
)

// Store-level errors produced by repositories and translated by services.
var (
	ErrUniqueViolation     = errors.New("unique violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// FieldError is a validation failure carrying a message fit for clients.
// It matches ErrorValidation with errors.Is.
type FieldError struct {
	Msg string
}

func (e *FieldError) Error() string {
	if e.Msg == "" {
		return ErrorValidation.Error()
	}
	return ErrorValidation.Error() + ": " + strings.ToLower(e.Msg[:1]) + e.Msg[1:]
}

func (e *FieldError) Unwrap() error { return ErrorValidation }

// FieldRequired builds a validation error naming the missing field.
func FieldRequired(what string) error {
	return &FieldError{Msg: fmt.Sprintf("The %s is required", what)}
}

// FieldInvalid builds a validation error for a malformed field.
func FieldInvalid(what string) error {
	return &FieldError{Msg: fmt.Sprintf("The %s is invalid", what)}
}
