package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/domain"
)

// AudienceService pushes confirmed users into the mailing-list audience.
// Only confirmed records are forwarded; everything else is acknowledged and
// dropped so the webhook sender never retries.
type AudienceService struct {
	baseURL    string
	apiKey     string
	audienceID string
	client     *http.Client
	logger     *zap.Logger
}

func NewAudienceService(cfg config.AudienceConfig, logger *zap.Logger) *AudienceService {
	return &AudienceService{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		audienceID: cfg.AudienceID,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Enabled reports whether the audience integration is configured
func (s *AudienceService) Enabled() bool {
	return s.apiKey != "" && s.audienceID != ""
}

// audienceContact is the upstream contact payload
type audienceContact struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Unsubscribed bool   `json:"unsubscribed"`
}

// AddIfConfirmed forwards a confirmed user record to the audience. Records
// without a confirmation timestamp are skipped and reported as not-added.
func (s *AudienceService) AddIfConfirmed(ctx context.Context, record *domain.AudienceRecord) (bool, error) {
	if record.EmailConfirmedAt == "" {
		s.logger.Debug("skipping unconfirmed audience record", zap.String("email", record.Email))
		return false, nil
	}
	if !s.Enabled() {
		s.logger.Warn("audience integration not configured, dropping record")
		return false, nil
	}

	payload, err := json.Marshal(audienceContact{
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
	})
	if err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/audiences/%s/contacts", s.baseURL, s.audienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to create audience request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	// The upstream treats an existing contact as a successful upsert.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: audience API returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	s.logger.Info("contact added to audience", zap.String("email", record.Email))
	return true, nil
}
