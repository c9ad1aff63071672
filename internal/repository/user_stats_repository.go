package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velocejet/charter-api/internal/domain"
)

type UserStatsRepository struct {
	db *gorm.DB
}

func NewUserStatsRepository(db *gorm.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) Create(ctx context.Context, stats *domain.UserStats) error {
	return r.db.WithContext(ctx).Create(stats).Error
}

func (r *UserStatsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := r.db.WithContext(ctx).First(&stats, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// IncrementProposalCount bumps the user's counter and stamps the generation
// time. A missing row is created on the fly so older accounts keep working.
func (r *UserStatsRepository) IncrementProposalCount(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&domain.UserStats{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"proposal_count":    gorm.Expr("proposal_count + 1"),
			"last_generated_at": now,
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Create(&domain.UserStats{
		UserID:          userID,
		ProposalCount:   1,
		LastGeneratedAt: &now,
	}).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against a concurrent insert; retry the update.
		return r.IncrementProposalCount(ctx, userID)
	}
	return err
}
