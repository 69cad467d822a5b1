package picsum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "pixfind/1.0"

	// v2PageLimit is the largest page the v2 endpoint serves
	v2PageLimit = 100
	// v2MaxPages stops runaway pagination against a misbehaving server
	v2MaxPages = 500
)

// API versions of the list endpoint
const (
	APIv1 = "v1"
	APIv2 = "v2"
)

// Client implements domain.PictureSource for Lorem Picsum
type Client struct {
	listURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Picsum list client
func NewClient(listURL, apiVersion string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if apiVersion == "" {
		apiVersion = APIv1
	}
	return &Client{
		listURL:    listURL,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs a GET request and returns the body
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, error) {
	reqURL := c.listURL
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("picsum request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("picsum request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("picsum request error", "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, resp.StatusCode)
	}

	return body, nil
}

// ListPictures returns the full picture list
func (c *Client) ListPictures(ctx context.Context) ([]domain.Picture, error) {
	switch c.apiVersion {
	case APIv1:
		return c.listV1(ctx)
	case APIv2:
		return c.listV2(ctx)
	default:
		return nil, fmt.Errorf("unknown picsum api version: %s", c.apiVersion)
	}
}

func (c *Client) listV1(ctx context.Context) ([]domain.Picture, error) {
	body, err := c.doRequest(ctx, nil)
	if err != nil {
		return nil, err
	}

	var items []PictureV1
	if err := json.Unmarshal(body, &items); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	pictures := MapPicturesV1(items)
	c.logger.Info("fetched picture list", "api", APIv1, "count", len(pictures))
	return pictures, nil
}

// listV2 walks pages until a short page comes back
func (c *Client) listV2(ctx context.Context) ([]domain.Picture, error) {
	var all []domain.Picture

	for page := 1; page <= v2MaxPages; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("limit", strconv.Itoa(v2PageLimit))

		body, err := c.doRequest(ctx, query)
		if err != nil {
			return nil, err
		}

		var items []PictureV2
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to parse page %d: %w", page, err)
		}

		all = append(all, MapPicturesV2(items)...)
		if len(items) < v2PageLimit {
			break
		}
	}

	c.logger.Info("fetched picture list", "api", APIv2, "count", len(all))
	return all, nil
}
