package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/mapper"
	"github.com/velocejet/charter-api/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
	logger   *zap.Logger
}

func NewSettingsHandler(settings *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   logger,
	}
}

// Get godoc
// @Summary Get company settings
// @Description Returns the authenticated user's company settings used for proposal branding
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.CompanySettingsDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /settings/company [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	settings, err := h.settings.GetByUserID(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to load company settings", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToCompanySettingsDTO(settings))
}

// Update godoc
// @Summary Update company settings
// @Description Replaces the authenticated user's company settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateCompanySettingsRequest true "New settings"
// @Success 200 {object} domain.CompanySettingsDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /settings/company [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.UpdateCompanySettingsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.settings.Update(r.Context(), userCtx.UserID, &req)
	if err != nil {
		h.logger.Error("failed to update company settings", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToCompanySettingsDTO(settings))
}
