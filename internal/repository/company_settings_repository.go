package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocejet/charter-api/internal/domain"
)

type CompanySettingsRepository struct {
	db *gorm.DB
}

func NewCompanySettingsRepository(db *gorm.DB) *CompanySettingsRepository {
	return &CompanySettingsRepository{db: db}
}

func (r *CompanySettingsRepository) Create(ctx context.Context, settings *domain.CompanySettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *CompanySettingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := r.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *CompanySettingsRepository) Update(ctx context.Context, settings *domain.CompanySettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
