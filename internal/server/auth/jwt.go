// Package auth issues and verifies the stateless bearer tokens that gate the
// authenticated API routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the subject user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// TokenService signs tokens with an HMAC secret held by the server.
// Tokens are never stored; rotating the secret invalidates all of them.
type TokenService struct {
	secretKey        []byte
	validityDuration time.Duration
	now              func() time.Time
}

// NewTokenService returns a TokenService. A zero validity issues tokens
// without an expiry claim. An empty secret is rejected.
func NewTokenService(secretKey string, validity time.Duration) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("token secret is empty")
	}
	if validity < 0 {
		return nil, errors.New("token validity is negative")
	}
	return &TokenService{secretKey: []byte(secretKey), validityDuration: validity, now: time.Now}, nil
}

// Issue returns a signed token binding subjectID.
func (s *TokenService) Issue(subjectID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: subjectID,
	}
	if s.validityDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.validityDuration))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded subject id. Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
