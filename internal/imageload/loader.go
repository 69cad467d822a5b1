package imageload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	defaultTimeout = 60 * time.Second
	userAgent      = "pixfind/1.0"

	// maxImageBytes bounds how much of a response body is decoded
	maxImageBytes = 32 << 20
)

// Loader fetches and decodes the image at url. Cancelling ctx must abort the
// underlying request.
type Loader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, url string) (image.Image, error)

// Load calls f(ctx, url)
func (f LoaderFunc) Load(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// HTTPLoader downloads images over HTTP and scales them to thumbnail size
type HTTPLoader struct {
	httpClient *http.Client
	width      int
	height     int
	scaler     string
	logger     *slog.Logger
}

// NewHTTPLoader creates a loader producing thumbnails that fit in width x height
// pixels. A nil client gets a default one with a generous timeout.
func NewHTTPLoader(client *http.Client, width, height int, scaler string, logger *slog.Logger) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPLoader{
		httpClient: client,
		width:      width,
		height:     height,
		scaler:     scaler,
		logger:     logger,
	}
}

// Load implements Loader
func (l *HTTPLoader) Load(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := l.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := ScaleToFit(img, l.width, l.height, l.scaler)
	l.logger.Debug("image decoded",
		"url", url,
		"format", format,
		"bounds", img.Bounds().String(),
		"elapsed", time.Since(start))

	return thumb, nil
}
