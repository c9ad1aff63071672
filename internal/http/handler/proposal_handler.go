package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/domain"
	httpmiddleware "github.com/velocejet/charter-api/internal/http/middleware"
	"github.com/velocejet/charter-api/internal/mapper"
	"github.com/velocejet/charter-api/internal/service"
)

type ProposalHandler struct {
	proposals *service.ProposalService
	logger    *zap.Logger
}

func NewProposalHandler(proposals *service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposals: proposals,
		logger:    logger,
	}
}

// Generate godoc
// @Summary Generate a proposal PDF
// @Description Assembles the submitted form state and streams the rendered PDF
// @Tags Proposals
// @Accept json
// @Produce application/pdf
// @Param request body domain.GenerateProposalRequest true "Proposal form state"
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /proposals/pdf [post]
func (h *ProposalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	var req domain.GenerateProposalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	pdfBytes, err := h.proposals.Generate(r.Context(), userCtx.UserID, &req)
	if err != nil {
		h.logger.Error("proposal generation failed",
			zap.String("user_id", userCtx.UserID.String()),
			zap.Error(err),
		)
		respondServiceError(w, err)
		return
	}

	httpmiddleware.CountProposal()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", proposalFilename(req.CustomerName)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

// proposalFilename builds "charter-offer-{customer}.pdf", stripping
// characters that don't survive a Content-Disposition header.
func proposalFilename(customerName string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_', r == '.':
			return r
		default:
			return -1
		}
	}, customerName)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "charter-offer.pdf"
	}
	return "charter-offer-" + cleaned + ".pdf"
}

// ListRecent godoc
// @Summary List recent proposal setups
// @Description Returns the authenticated user's most recent generated setups, newest first
// @Tags Proposals
// @Produce json
// @Success 200 {array} domain.RecentSetupDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /proposals/recent [get]
func (h *ProposalHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	setups, err := h.proposals.ListRecentSetups(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to list recent setups", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToRecentSetupDTOs(setups))
}
