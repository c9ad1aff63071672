package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/repository"
)

// SettingsService manages per-user company settings
type SettingsService struct {
	settingsRepo *repository.CompanySettingsRepository
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo *repository.CompanySettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetByUserID returns the user's company settings, creating the default row
// when registration failed to.
func (s *SettingsService) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CompanySettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = &domain.CompanySettings{
		UserID:     userID,
		Disclaimer: domain.DefaultDisclaimer,
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Warn("recreated missing company settings", zap.String("user_id", userID.String()))
	return settings, nil
}

// Update replaces the user's company settings. An empty disclaimer falls
// back to the default so the PDF never ships without one.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, req *domain.UpdateCompanySettingsRequest) (*domain.CompanySettings, error) {
	settings, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.CompanyName = req.CompanyName
	settings.Address = req.Address
	settings.VATNumber = req.VATNumber
	settings.Website = req.Website
	settings.Email = req.Email
	settings.PhoneNumber = req.PhoneNumber
	settings.Logo = req.Logo
	settings.Disclaimer = req.Disclaimer
	if settings.Disclaimer == "" {
		settings.Disclaimer = domain.DefaultDisclaimer
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
