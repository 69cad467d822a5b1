package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
	"github.com/mmcdole/pixfind/internal/store"
)

type fakeSource struct {
	pictures []domain.Picture
	err      error
	calls    int
}

func (f *fakeSource) ListPictures(ctx context.Context) ([]domain.Picture, error) {
	f.calls++
	return f.pictures, f.err
}

func newTestCatalog(t *testing.T, src *fakeSource, ttl time.Duration) (*CatalogService, *store.PictureStore) {
	t.Helper()
	st, err := store.NewPictureStore("")
	if err != nil {
		t.Fatal(err)
	}
	return NewCatalogService(src, st, ttl, nil), st
}

func TestCatalog_FetchesOnceThenServesCache(t *testing.T) {
	src := &fakeSource{pictures: []domain.Picture{{ID: 1, Author: "A"}}}
	svc, _ := newTestCatalog(t, src, time.Hour)

	first, err := svc.Pictures(context.Background())
	if err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}
	if first.FromCache {
		t.Error("first load should come from the source")
	}

	second, err := svc.Pictures(context.Background())
	if err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}
	if !second.FromCache {
		t.Error("second load should come from the cache")
	}
	if src.calls != 1 {
		t.Errorf("source called %d times; want 1", src.calls)
	}
}

func TestCatalog_ExpiredCacheRefetches(t *testing.T) {
	src := &fakeSource{pictures: []domain.Picture{{ID: 1}}}
	svc, st := newTestCatalog(t, src, time.Hour)

	st.SavePictures([]domain.Picture{{ID: 99}}, time.Now().Add(-2*time.Hour))

	res, err := svc.Pictures(context.Background())
	if err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}
	if res.FromCache || res.Pictures[0].ID != 1 {
		t.Errorf("expected fresh fetch, got %+v", res)
	}
}

func TestCatalog_RefreshBypassesCache(t *testing.T) {
	src := &fakeSource{pictures: []domain.Picture{{ID: 1}}}
	svc, _ := newTestCatalog(t, src, time.Hour)

	svc.Pictures(context.Background())
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if src.calls != 2 {
		t.Errorf("source called %d times; want 2", src.calls)
	}
}

func TestCatalog_SourceErrorIsWrapped(t *testing.T) {
	src := &fakeSource{err: domain.ErrSourceOffline}
	svc, _ := newTestCatalog(t, src, time.Hour)

	_, err := svc.Pictures(context.Background())
	if !errors.Is(err, domain.ErrSourceOffline) {
		t.Errorf("error = %v; want ErrSourceOffline", err)
	}
}

func TestCatalog_InvalidateForcesFetch(t *testing.T) {
	src := &fakeSource{pictures: []domain.Picture{{ID: 1}}}
	svc, st := newTestCatalog(t, src, time.Hour)

	if _, err := svc.Pictures(context.Background()); err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}

	svc.Invalidate()
	if _, _, ok := st.GetPictures(); ok {
		t.Fatal("store should be empty after Invalidate")
	}

	res, err := svc.Pictures(context.Background())
	if err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}
	if res.FromCache || src.calls != 2 {
		t.Errorf("expected a second fetch, got fromCache=%v calls=%d", res.FromCache, src.calls)
	}
}
