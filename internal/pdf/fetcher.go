package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageFetcher resolves an image source (data URI or URL) into raw bytes
// plus the image type fpdf expects ("PNG" or "JPG").
type ImageFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, string, error)
}

// maxImageBytes caps a single fetched image. Matches the upload limit.
const maxImageBytes = 10 << 20

// HTTPFetcher resolves data URIs locally and everything else over HTTP
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded request timeout
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch implements ImageFetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, string, error) {
	if strings.HasPrefix(source, "data:") {
		return decodeDataURI(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image url: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	imageType, err := imageTypeFor(resp.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, "", err
	}
	return data, imageType, nil
}

// decodeDataURI handles data:image/<fmt>;base64,<payload> sources
func decodeDataURI(source string) ([]byte, string, error) {
	meta, payload, found := strings.Cut(source, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data uri")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("data uri must be base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data uri: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	mediaType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	imageType, err := imageTypeFor(mediaType, data)
	if err != nil {
		return nil, "", err
	}
	return data, imageType, nil
}

// imageTypeFor maps a media type, falling back to content sniffing, onto
// the fpdf image type identifiers.
func imageTypeFor(mediaType string, data []byte) (string, error) {
	switch {
	case strings.Contains(mediaType, "png"):
		return "PNG", nil
	case strings.Contains(mediaType, "jpeg"), strings.Contains(mediaType, "jpg"):
		return "JPG", nil
	}

	sniffed := http.DetectContentType(data)
	switch sniffed {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	}
	return "", fmt.Errorf("unsupported image type %q", mediaType)
}
