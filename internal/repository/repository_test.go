package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velocejet/charter-api/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One named in-memory database per test; cache=shared keeps the pool's
	// connections on the same database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.CompanySettings{},
		&domain.UserStats{},
		&domain.RecentSetup{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "broker@velocejet.example")
	assert.NotEqual(t, uuid.Nil, user.ID, "create must assign an ID")

	t.Run("get by email is case-insensitive against normalized rows", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "BROKER@velocejet.example")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "broker@velocejet.example")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@velocejet.example")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing user returns ErrRecordNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("confirmation state persists", func(t *testing.T) {
		now := time.Now().UTC()
		user.ConfirmedAt = &now
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsConfirmed())
	})
}

func TestCompanySettingsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompanySettingsRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "broker@velocejet.example")

	settings := &domain.CompanySettings{
		UserID:      user.ID,
		CompanyName: "VeloceJet AS",
		Disclaimer:  domain.DefaultDisclaimer,
	}
	require.NoError(t, repo.Create(ctx, settings))

	found, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "VeloceJet AS", found.CompanyName)
	assert.Equal(t, domain.DefaultDisclaimer, found.Disclaimer)

	found.VATNumber = "NO 999 888 777"
	require.NoError(t, repo.Update(ctx, found))

	found, err = repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "NO 999 888 777", found.VATNumber)
}

func TestUserStatsRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserStatsRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "broker@velocejet.example")

	t.Run("increment creates the row on first use", func(t *testing.T) {
		require.NoError(t, repo.IncrementProposalCount(ctx, user.ID))

		stats, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.ProposalCount)
		require.NotNil(t, stats.LastGeneratedAt)
	})

	t.Run("increment bumps an existing row", func(t *testing.T) {
		require.NoError(t, repo.IncrementProposalCount(ctx, user.ID))
		require.NoError(t, repo.IncrementProposalCount(ctx, user.ID))

		stats, err := repo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.ProposalCount)
	})

	t.Run("duplicate insert translates to ErrDuplicatedKey", func(t *testing.T) {
		// The create-after-empty-update race in IncrementProposalCount
		// retries on this sentinel, so the driver error must map to it.
		err := repo.Create(ctx, &domain.UserStats{UserID: user.ID, ProposalCount: 1})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})
}

func TestRecentSetupRepositoryRingBuffer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecentSetupRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "broker@velocejet.example")

	push := func(i int, createdAt time.Time) {
		setup := &domain.RecentSetup{
			UserID:        user.ID,
			DepartureCode: fmt.Sprintf("ENG%d", i),
			DepartureDate: "2026-09-14",
			CustomerName:  fmt.Sprintf("Customer %d", i),
			Legs:          `[{"departureCode":"ENGM","arrivalCode":"EGGW"}]`,
		}
		setup.CreatedAt = createdAt
		require.NoError(t, repo.Push(ctx, setup))
	}

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		push(i, base.Add(time.Duration(i)*time.Minute))
	}

	setups, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, setups, domain.RecentSetupLimit, "only the newest entries survive")

	// Newest first: 4, 3, 2.
	assert.Equal(t, "Customer 4", setups[0].CustomerName)
	assert.Equal(t, "Customer 3", setups[1].CustomerName)
	assert.Equal(t, "Customer 2", setups[2].CustomerName)

	// The rows beyond the cap are actually deleted, not just filtered.
	var count int64
	require.NoError(t, db.Model(&domain.RecentSetup{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(domain.RecentSetupLimit), count)

	t.Run("other users are unaffected", func(t *testing.T) {
		other := createTestUser(t, db, "other@velocejet.example")
		setups, err := repo.ListByUserID(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, setups)
	})
}
