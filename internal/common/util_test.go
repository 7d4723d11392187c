package common

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_Length(t *testing.T) {
	for _, n := range []int{0, 12, 32} {
		buf := GenerateRandByteArray(n)
		require.NotNil(t, buf)
		assert.Len(t, buf, n)
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	if bytes.Equal(a, b) {
		t.Logf("warning: two GenerateRandByteArray(32) results are identical; extremely unlikely")
	}
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestDomainErrors_MatchCategory(t *testing.T) {
	tests := []struct {
		err      error
		category error
	}{
		{ErrInvalidToken, ErrorUnauthorized},
		{ErrMissingToken, ErrorUnauthorized},
		{ErrUserNotFound, ErrorNotFound},
		{ErrPostNotFound, ErrorNotFound},
		{ErrDuplicateEmail, ErrorConflict},
		{ErrDuplicateIdentifier, ErrorConflict},
		{ErrAlreadyLiked, ErrorConflict},
		{ErrNotLiked, ErrorConflict},
		{ErrIdentifierMismatch, ErrorForbidden},
		{ErrPostOwnerMismatch, ErrorForbidden},
		{FieldRequired("email"), ErrorValidation},
		{FieldInvalid("post id"), ErrorValidation},
	}
	for _, tt := range tests {
		assert.True(t, errors.Is(tt.err, tt.category), "%v should match %v", tt.err, tt.category)
	}

	assert.False(t, errors.Is(ErrAlreadyLiked, ErrNotLiked))
	assert.False(t, errors.Is(ErrAuthFailed, ErrorNotFound))
}

func TestFieldRequired_Message(t *testing.T) {
	assert.Equal(t, "validation error: the email is required", FieldRequired("email").Error())
}

func TestFieldError_KeepsClientMessageThroughWrapping(t *testing.T) {
	err := fmt.Errorf("decode like: %w", FieldInvalid("post id"))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "The post id is invalid", fe.Msg)
	assert.ErrorIs(t, err, ErrorValidation)
	assert.Equal(t, "validation error", (&FieldError{}).Error())
}
