package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/domain"
	"github.com/velocejet/charter-api/internal/storage"
)

// UploadService validates and stores proposal images
type UploadService struct {
	store    storage.Store
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadService(store storage.Store, maxBytes int64, logger *zap.Logger) *UploadService {
	return &UploadService{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// MaxBytes returns the per-file upload limit
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// SaveImage validates the upload and persists it. Files over the size limit
// or without an image media type are rejected; the declared content type is
// cross-checked against the file's leading bytes.
func (s *UploadService) SaveImage(ctx context.Context, filename, declaredType string, data io.Reader) (*domain.UploadResponse, error) {
	limited := io.LimitReader(data, s.maxBytes+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(buf)) > s.maxBytes {
		return nil, ErrUploadTooLarge
	}

	contentType := declaredType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(buf)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedImageType
	}
	if sniffed := http.DetectContentType(buf); !strings.HasPrefix(sniffed, "image/") {
		return nil, ErrUnsupportedImageType
	}

	path, size, err := s.store.Save(ctx, filename, contentType, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}

	s.logger.Info("image stored",
		zap.String("path", path),
		zap.String("contentType", contentType),
		zap.Int64("size", size),
	)

	return &domain.UploadResponse{
		Path:        path,
		ContentType: contentType,
		Size:        size,
	}, nil
}
