// Package security holds token verification. The marketplace consumes tokens
// minted by the identity provider; it never signs its own, so only the verify
// half of the scheme lives here.
package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sellforge/marketplace/internal/ports"
)

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

type marketplaceClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) Verify(raw string) (ports.AuthClaims, error) {
	var claims marketplaceClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return ports.AuthClaims{}, errors.New("invalid token")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return ports.AuthClaims{}, errors.New("token missing subject")
	}
	return ports.AuthClaims{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
