package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/service"
)

type UploadHandler struct {
	uploads *service.UploadService
	logger  *zap.Logger
}

func NewUploadHandler(uploads *service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger,
	}
}

// UploadImage godoc
// @Summary Upload a proposal image
// @Description Stores an aircraft or logo image for later use in proposals. Only image types are accepted, up to 10 MiB.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} domain.UploadResponse
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 415 {object} domain.APIError
// @Security BearerAuth
// @Router /uploads/images [post]
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// The limit is checked again downstream; this bound stops oversized
	// bodies from being buffered in full.
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	resp, err := h.uploads.SaveImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}
