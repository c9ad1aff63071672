package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/repository"
)

// AccountService handles registration, login and profile access
type AccountService struct {
	userRepo     *repository.UserRepository
	profileRepo  *repository.ProfileRepository
	settingsRepo *repository.CompanySettingsRepository
	statsRepo    *repository.UserStatsRepository
	tokenIssuer  *auth.TokenIssuer
	logger       *zap.Logger
}

func NewAccountService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	settingsRepo *repository.CompanySettingsRepository,
	statsRepo *repository.UserStatsRepository,
	tokenIssuer *auth.TokenIssuer,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		settingsRepo: settingsRepo,
		statsRepo:    statsRepo,
		tokenIssuer:  tokenIssuer,
		logger:       logger,
	}
}

// CheckRegistration reports whether an account exists for the email and
// whether it has been confirmed.
func (s *AccountService) CheckRegistration(ctx context.Context, email string) (*domain.CheckRegistrationResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.CheckRegistrationResponse{Exists: false, Confirmed: false}, nil
		}
		return nil, err
	}
	return &domain.CheckRegistrationResponse{
		Exists:    true,
		Confirmed: user.IsConfirmed(),
	}, nil
}

// Register creates the account and its satellite records. Accounts are
// confirmed immediately; there is no email verification round-trip.
//
// Satellite record creation is deliberately not transactional: a failed
// profile or settings insert surfaces as an error but the created user is
// NOT rolled back. The orphaned user is a known inconsistency; the missing
// record is recreated lazily on first access.
func (s *AccountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		ConfirmedAt:  &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent registration.
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	profile := &domain.Profile{
		ID:        user.ID,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		s.logger.Error("failed to create profile during registration",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	settings := &domain.CompanySettings{
		UserID:     user.ID,
		Email:      email,
		Disclaimer: domain.DefaultDisclaimer,
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		s.logger.Error("failed to create company settings during registration",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.statsRepo.Create(ctx, &domain.UserStats{UserID: user.ID}); err != nil {
		s.logger.Error("failed to create user stats during registration",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies the credentials and issues a session token
func (s *AccountService) Login(ctx context.Context, req *domain.LoginRequest) (string, *domain.Profile, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.tokenIssuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	profile, err := s.GetProfile(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// IssueSession signs a token for an already-verified user. Registration
// uses it to log the new account straight in.
func (s *AccountService) IssueSession(ctx context.Context, user *domain.User) (string, *domain.Profile, error) {
	token, _, err := s.tokenIssuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	profile, err := s.GetProfile(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

// GetProfile returns the user's profile, recreating a missing row from the
// user record. Registration tolerates partial failure, so the row may not
// exist.
func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	profile = &domain.Profile{
		ID:    user.ID,
		Email: user.Email,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Warn("recreated missing profile", zap.String("user_id", userID.String()))
	return profile, nil
}
