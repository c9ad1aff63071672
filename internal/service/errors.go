package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handler layer
var (
	ErrNotFound             = errors.New("record not found")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidProposal      = errors.New("proposal is missing required data")
	ErrUploadTooLarge       = errors.New("uploaded file exceeds the size limit")
	ErrUnsupportedImageType = errors.New("uploaded file is not an image")
	ErrUpstreamUnavailable  = errors.New("upstream service unavailable")
)
