package catalogapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Limits for image downloads
const (
	imageDownloadTimeout = 15 * time.Second
	// maxImageSize limits the response body size to prevent memory exhaustion
	maxImageSize = 20 * 1024 * 1024 // 20MB
)

// ImageDownloader fetches cover images referenced by catalog responses.
// Failures are logged and swallowed: a missing cover is never an error,
// the caller simply omits the field.
type ImageDownloader struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewImageDownloader creates a downloader with the fixed image timeout
func NewImageDownloader(logger *zap.Logger) *ImageDownloader {
	return &ImageDownloader{
		httpClient: &http.Client{Timeout: imageDownloadTimeout},
		logger:     logger,
	}
}

// Download fetches the image at url and returns its bytes, or nil when the
// download fails for any reason
func (d *ImageDownloader) Download(ctx context.Context, url string) []byte {
	if url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		d.logger.Warn("Failed to build image request", zap.String("url", url), zap.Error(err))
		return nil
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Warn("Failed to download image", zap.String("url", url), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Warn("Image download returned non-success status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		d.logger.Warn("Failed to read image body", zap.String("url", url), zap.Error(err))
		return nil
	}
	if len(body) == 0 {
		return nil
	}
	return body
}
