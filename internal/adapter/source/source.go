package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/pixfind/internal/adapter"
	"github.com/mmcdole/pixfind/internal/adapter/source/picsum"
	"github.com/mmcdole/pixfind/internal/domain"
)

// NewClient creates the picture list source described by the config.
func NewClient(cfg *adapter.SourceConfig, logger *slog.Logger) (domain.PictureSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	if cfg.ListURL == "" {
		return nil, fmt.Errorf("source list URL is required")
	}

	switch cfg.API {
	case "", picsum.APIv1, picsum.APIv2:
		return picsum.NewClient(cfg.ListURL, cfg.API, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown source api: %s", cfg.API)
	}
}
