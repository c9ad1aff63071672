package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/service"
)

type WebhookHandler struct {
	audience *service.AudienceService
	logger   *zap.Logger
}

func NewWebhookHandler(audience *service.AudienceService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		audience: audience,
		logger:   logger,
	}
}

// AddToAudience godoc
// @Summary Add a confirmed user to the mailing audience
// @Description Webhook endpoint for the auth provider. Confirmed records are forwarded to the audience; unconfirmed ones are acknowledged and dropped.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body domain.AddToAudienceRequest true "User record"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Router /webhooks/add-to-audience [post]
func (h *WebhookHandler) AddToAudience(w http.ResponseWriter, r *http.Request) {
	var req domain.AddToAudienceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}
	if req.Record.Email == "" {
		respondWithError(w, http.StatusBadRequest, "record.email is required")
		return
	}

	added, err := h.audience.AddIfConfirmed(r.Context(), &req.Record)
	if err != nil {
		h.logger.Error("audience webhook failed",
			zap.String("email", req.Record.Email),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"added": added})
}
