// Package auth issues and validates the first-party session tokens used by
// the proposal API. Tokens are HS256 JWTs signed with the shared secret from
// configuration.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/velocejet/charter-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenIssuer signs and validates session tokens
type TokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	timeFunc func() time.Time
}

// NewTokenIssuer creates a token issuer from the auth configuration
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		ttl:      time.Duration(cfg.TokenTTLHours) * time.Hour,
		issuer:   cfg.Issuer,
		timeFunc: time.Now,
	}
}

// sessionClaims is the claim set carried by a session token
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed session token for the user
func (t *TokenIssuer) IssueToken(userID uuid.UUID, email string) (string, time.Time, error) {
	now := t.timeFunc()
	expiresAt := now.Add(t.ttl)

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and validates a session token and returns the user
// context it carries.
func (t *TokenIssuer) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.timeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	return &UserContext{
		UserID: userID,
		Email:  claims.Email,
	}, nil
}
