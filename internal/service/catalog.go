package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
)

// CatalogResult is the outcome of loading the picture list
type CatalogResult struct {
	Pictures  []domain.Picture
	FetchedAt time.Time
	FromCache bool
}

// CatalogService downloads the picture list once and reuses it for the
// session. A cached list younger than ttl is served without a request.
type CatalogService struct {
	source domain.PictureSource
	store  domain.PictureStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source domain.PictureSource, store domain.PictureStore, ttl time.Duration, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Pictures returns the cached list when it is still fresh, otherwise fetches it
func (s *CatalogService) Pictures(ctx context.Context) (CatalogResult, error) {
	if res, err := s.fromStore(); err == nil {
		s.logger.Debug("cache hit", "count", len(res.Pictures), "fetchedAt", res.FetchedAt)
		return res, nil
	}
	return s.Refresh(ctx)
}

// fromStore returns the stored list or domain.ErrCacheMiss
func (s *CatalogService) fromStore() (CatalogResult, error) {
	if s.store == nil {
		return CatalogResult{}, domain.ErrCacheMiss
	}

	pictures, fetchedAt, ok := s.store.GetPictures()
	if !ok {
		return CatalogResult{}, domain.ErrCacheMiss
	}
	if s.ttl > 0 && s.now().Sub(fetchedAt) > s.ttl {
		s.logger.Debug("cached list expired", "fetchedAt", fetchedAt, "ttl", s.ttl)
		return CatalogResult{}, domain.ErrCacheMiss
	}

	return CatalogResult{Pictures: pictures, FetchedAt: fetchedAt, FromCache: true}, nil
}

// Refresh fetches the list from the source, bypassing the cache
func (s *CatalogService) Refresh(ctx context.Context) (CatalogResult, error) {
	pictures, err := s.source.ListPictures(ctx)
	if err != nil {
		s.logger.Error("failed to fetch picture list", "error", err)
		return CatalogResult{}, fmt.Errorf("fetching picture list: %w", err)
	}

	fetchedAt := s.now()
	if s.store != nil {
		if err := s.store.SavePictures(pictures, fetchedAt); err != nil {
			// The list is still usable for this session
			s.logger.Warn("failed to cache picture list", "error", err)
		}
	}

	s.logger.Info("loaded picture list", "count", len(pictures))
	return CatalogResult{Pictures: pictures, FetchedAt: fetchedAt}, nil
}

// Invalidate drops the stored list so the next Pictures call fetches
func (s *CatalogService) Invalidate() {
	if s.store == nil {
		return
	}
	s.store.Invalidate()
	s.logger.Info("picture list cache invalidated")
}
