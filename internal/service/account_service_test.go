package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

func newAccountService(t *testing.T, db *gorm.DB) *AccountService {
	t.Helper()
	issuer := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret:     "test-secret-test-secret-test-secret",
		TokenTTLHours: 24,
		Issuer:        "velocejet-charter-api",
	})
	return NewAccountService(
		repository.NewUserRepository(db),
		repository.NewProfileRepository(db),
		repository.NewCompanySettingsRepository(db),
		repository.NewUserStatsRepository(db),
		issuer,
		zap.NewNop(),
	)
}

func registerRequest() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Email:     "Broker@VeloceJet.example",
		Password:  "correct-horse-battery",
		FirstName: "Astrid",
		LastName:  "Berge",
	}
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("account is confirmed immediately", func(t *testing.T) {
		assert.True(t, user.IsConfirmed())
	})

	t.Run("email is normalized to lower case", func(t *testing.T) {
		assert.Equal(t, "broker@velocejet.example", user.Email)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")))
	})

	t.Run("satellite records are created", func(t *testing.T) {
		profile, err := repository.NewProfileRepository(db).GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Astrid Berge", profile.FullName())

		settings, err := repository.NewCompanySettingsRepository(db).GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDisclaimer, settings.Disclaimer)

		stats, err := repository.NewUserStatsRepository(db).GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.ProposalCount)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, registerRequest())
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestRegisterPartialFailureKeepsUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	// A pre-existing profile row with the same email makes the profile
	// insert fail after the user has already been created.
	require.NoError(t, db.Create(&domain.Profile{
		ID:    uuid.New(),
		Email: "broker@velocejet.example",
	}).Error)

	_, err := svc.Register(ctx, registerRequest())
	require.Error(t, err)

	// The created user is not rolled back.
	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("email = ?", "broker@velocejet.example").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckRegistration(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	resp, err := svc.CheckRegistration(ctx, "broker@velocejet.example")
	require.NoError(t, err)
	assert.False(t, resp.Exists)
	assert.False(t, resp.Confirmed)

	_, err = svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err = svc.CheckRegistration(ctx, "BROKER@velocejet.example")
	require.NoError(t, err)
	assert.True(t, resp.Exists)
	assert.True(t, resp.Confirmed)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, profile, err := svc.Login(ctx, &domain.LoginRequest{
			Email:    "broker@velocejet.example",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "Astrid", profile.FirstName)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &domain.LoginRequest{
			Email:    "broker@velocejet.example",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as a wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, &domain.LoginRequest{
			Email:    "nobody@velocejet.example",
			Password: "correct-horse-battery",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetProfileRecreatesMissingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAccountService(t, db)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// Simulate a registration where the profile insert failed.
	require.NoError(t, db.Delete(&domain.Profile{}, "id = ?", user.ID).Error)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
	assert.Empty(t, profile.FirstName, "recreated profile only carries what the user record knows")
}
