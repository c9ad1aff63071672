package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/config"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{
		JWTSecret:     "test-secret-test-secret-test-secret",
		TokenTTLHours: 24,
		Issuer:        "velocejet-charter-api",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	issuer := newTestIssuer()
	userID := uuid.New()

	token, expiresAt, err := issuer.IssueToken(userID, "pilot@velocejet.example")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	userCtx, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "pilot@velocejet.example", userCtx.Email)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	issuer := newTestIssuer()
	issuer.timeFunc = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, _, err := issuer.IssueToken(uuid.New(), "pilot@velocejet.example")
	require.NoError(t, err)

	issuer.timeFunc = time.Now
	_, err = issuer.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	token, _, err := issuer.IssueToken(uuid.New(), "pilot@velocejet.example")
	require.NoError(t, err)

	other := NewTokenIssuer(config.AuthConfig{
		JWTSecret:     "a-completely-different-secret-value",
		TokenTTLHours: 24,
		Issuer:        "velocejet-charter-api",
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	other := NewTokenIssuer(config.AuthConfig{
		JWTSecret:     "test-secret-test-secret-test-secret",
		TokenTTLHours: 24,
		Issuer:        "someone-else",
	})
	token, _, err := other.IssueToken(uuid.New(), "pilot@velocejet.example")
	require.NoError(t, err)

	_, err = newTestIssuer().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := newTestIssuer().ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateMiddleware(t *testing.T) {
	issuer := newTestIssuer()
	mw := NewMiddleware(issuer, zap.NewNop())
	userID := uuid.New()

	var captured *UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = MustFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes and injects user", func(t *testing.T) {
		token, _, err := issuer.IssueToken(userID, "pilot@velocejet.example")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, userID, captured.UserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
