package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocejet/charter-api/internal/domain"
)

type RecentSetupRepository struct {
	db *gorm.DB
}

func NewRecentSetupRepository(db *gorm.DB) *RecentSetupRepository {
	return &RecentSetupRepository{db: db}
}

// ListByUserID returns the user's setups, newest first, capped at the ring
// buffer limit.
func (r *RecentSetupRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.RecentSetup, error) {
	var setups []domain.RecentSetup
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(domain.RecentSetupLimit).
		Find(&setups).Error
	if err != nil {
		return nil, err
	}
	return setups, nil
}

// Push records a new setup and evicts the oldest rows beyond the limit, all
// in one transaction.
func (r *RecentSetupRepository) Push(ctx context.Context, setup *domain.RecentSetup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(setup).Error; err != nil {
			return err
		}

		var stale []domain.RecentSetup
		err := tx.Where("user_id = ?", setup.UserID).
			Order("created_at DESC").
			Offset(domain.RecentSetupLimit).
			Find(&stale).Error
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(stale))
		for i, s := range stale {
			ids[i] = s.ID
		}
		return tx.Delete(&domain.RecentSetup{}, "id IN ?", ids).Error
	})
}
