package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/domain"
)

func confirmedRecord() *domain.AudienceRecord {
	return &domain.AudienceRecord{
		ID:               "usr_123",
		Email:            "broker@velocejet.example",
		EmailConfirmedAt: "2026-08-27T10:00:00Z",
		FirstName:        "Astrid",
		LastName:         "Berge",
	}
}

func newAudienceService(baseURL string) *AudienceService {
	return NewAudienceService(config.AudienceConfig{
		BaseURL:    baseURL,
		APIKey:     "re_test_key",
		AudienceID: "aud_42",
	}, zap.NewNop())
}

func TestAddIfConfirmed(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody audienceContact
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	svc := newAudienceService(server.URL)
	added, err := svc.AddIfConfirmed(context.Background(), confirmedRecord())
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, "/audiences/aud_42/contacts", gotPath)
	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "broker@velocejet.example", gotBody.Email)
	assert.Equal(t, "Astrid", gotBody.FirstName)
	assert.False(t, gotBody.Unsubscribed)
}

func TestAddIfConfirmedSkipsUnconfirmed(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	record := confirmedRecord()
	record.EmailConfirmedAt = ""

	added, err := newAudienceService(server.URL).AddIfConfirmed(context.Background(), record)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, called, "unconfirmed records must not reach the upstream")
}

func TestAddIfConfirmedUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newAudienceService(server.URL).AddIfConfirmed(context.Background(), confirmedRecord())
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestAddIfConfirmedNotConfigured(t *testing.T) {
	svc := NewAudienceService(config.AudienceConfig{BaseURL: "https://api.resend.com"}, zap.NewNop())

	added, err := svc.AddIfConfirmed(context.Background(), confirmedRecord())
	require.NoError(t, err)
	assert.False(t, added)
}
