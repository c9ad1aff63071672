package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/catalog"
)

type DiagnosticsHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

func NewDiagnosticsHandler(catalogService *catalog.Service, logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// TestSheets godoc
// @Summary Test spreadsheet connectivity
// @Description Forces a fetch from the catalog source and returns record counts plus a small sample
// @Tags Diagnostics
// @Produce json
// @Success 200 {object} catalog.Sample
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Router /test-sheets [get]
func (h *DiagnosticsHandler) TestSheets(w http.ResponseWriter, r *http.Request) {
	sample, err := h.catalog.Diagnose(r.Context())
	if err != nil {
		h.logger.Error("catalog diagnostic failed", zap.Error(err))
		respondWithError(w, http.StatusBadGateway, "catalog source unreachable: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sample)
}
