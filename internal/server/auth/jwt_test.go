package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string, validity time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService(secret, validity)
	require.NoError(t, err)
	return s
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := newService(t, "super-secret", time.Hour)

	tok, err := s.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", got, "user-123")
	}
}

func TestIssue_NoExpiryWhenValidityZero(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	s.now = func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)

	// decades later the token still verifies
	s.now = func() time.Time { return time.Date(2060, 1, 1, 0, 0, 0, 0, time.UTC) }
	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", got)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newService(t, "secret", time.Minute)
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	tok, err := s.Issue("u1")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newService(t, "right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = newService(t, "wrong-secret", time.Hour).Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "got %v", err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	for _, tok := range []string{"", "not.a.jwt", "abc", strings.Repeat("a", 300)} {
		_, err := s.Verify(tok)
		assert.True(t, errors.Is(err, common.ErrInvalidToken), "token %q: got %v", tok, err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	tok, err := s.Issue("alice-id")
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "mallory-id"}).SignedString([]byte("guess"))
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	forgedParts := strings.Split(forged, ".")

	_, err = s.Verify(parts[0] + "." + forgedParts[1] + "." + parts[2])
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_EmptySubject(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	tok, err := s.Issue("")
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestNewTokenService_Validation(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.Error(t, err)

	_, err = NewTokenService("k", -time.Second)
	require.Error(t, err)
}
