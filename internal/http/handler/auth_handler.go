package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/mapper"
	"github.com/velocejet/charter-api/internal/service"
)

type AuthHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

func NewAuthHandler(accounts *service.AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// CheckRegistration godoc
// @Summary Check whether an email is registered
// @Description Reports account existence and confirmation state for an email address
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.CheckRegistrationRequest true "Email to check"
// @Success 200 {object} domain.CheckRegistrationResponse
// @Failure 400 {object} domain.APIError
// @Router /check-registration [post]
func (h *AuthHandler) CheckRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckRegistrationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.accounts.CheckRegistration(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("check registration failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new account
// @Description Creates the account with profile and default company settings, confirms it immediately and returns a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Registration data"
// @Success 201 {object} domain.SessionResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, profile, err := h.accounts.IssueSession(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue session after registration", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, domain.SessionResponse{
		Token:   token,
		Profile: mapper.ToProfileDTO(profile),
	})
}

// Login godoc
// @Summary Log in
// @Description Exchanges credentials for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.SessionResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	token, profile, err := h.accounts.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.SessionResponse{
		Token:   token,
		Profile: mapper.ToProfileDTO(profile),
	})
}

// Me godoc
// @Summary Get the current profile
// @Description Returns the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.ProfileDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	profile, err := h.accounts.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToProfileDTO(profile))
}
