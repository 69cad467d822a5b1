package components

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
	"github.com/mmcdole/pixfind/internal/imageload"
	"github.com/mmcdole/pixfind/internal/search"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	return img
}

// blockingLoader never completes on its own
var blockingLoader = imageload.LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
})

type mapLookup map[string]image.Image

func (m mapLookup) Cached(url string) (image.Image, bool) {
	img, ok := m[url]
	return img, ok
}

func resultsFor(total int, ids ...int) *search.Results {
	res := &search.Results{Query: "x", Total: total}
	for _, id := range ids {
		res.Matches = append(res.Matches, search.Result{
			Picture: domain.Picture{ID: id, Author: "Author", Filename: "file.jpeg", Width: 10, Height: 10, Format: "jpeg"},
		})
	}
	return res
}

func waitSettled(t *testing.T, p *imageload.Preloader) {
	t.Helper()
	select {
	case <-p.Settled():
	case <-time.After(2 * time.Second):
		t.Fatalf("preloader for %s never settled", p.URL())
	}
}

func TestResultList_SetResultsReconcilesByPictureID(t *testing.T) {
	registry := imageload.NewRegistry()
	factory := func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, registry, blockingLoader)
	}

	list := NewResultList(8, 4, "https://img.test/{id}", nil)
	mounted := list.SetResults(resultsFor(3, 1, 2, 3), factory)
	if len(mounted) != 3 {
		t.Fatalf("mounted = %d, want 3", len(mounted))
	}
	first := map[string]*ResultRow{}
	for _, row := range mounted {
		first[row.Result.Picture.GetID()] = row
	}

	mounted = list.SetResults(resultsFor(2, 2, 4), factory)
	if len(mounted) != 1 || mounted[0].Result.Picture.ID != 4 {
		t.Fatalf("second pass mounted %v, want only picture 4", mounted)
	}

	rows := list.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0] != first["2"] {
		t.Error("surviving row was remounted")
	}
	if rows[0].Preloader.State() != imageload.StatePreloading {
		t.Errorf("surviving row state = %v, want preloading", rows[0].Preloader.State())
	}

	for _, id := range []string{"1", "3"} {
		p := first[id].Preloader
		if p.State() != imageload.StateCancelled {
			t.Errorf("removed row %s state = %v, want cancelled", id, p.State())
		}
	}
	if registry.Len() != 0 {
		t.Errorf("registry has %d entries after cancellations", registry.Len())
	}
}

func TestResultList_RowURLFromTemplate(t *testing.T) {
	factory := func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, imageload.NewRegistry(), blockingLoader)
	}
	list := NewResultList(8, 4, "https://img.test/{id}", nil)
	rows := list.SetResults(resultsFor(1, 42), factory)
	defer list.TeardownAll()

	if rows[0].URL != "https://img.test/42" {
		t.Errorf("URL = %q", rows[0].URL)
	}
	if rows[0].ViewID == "" {
		t.Error("row has no view id")
	}
}

func TestResultList_NilResultsTearsDownEverything(t *testing.T) {
	factory := func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, imageload.NewRegistry(), blockingLoader)
	}
	list := NewResultList(8, 4, "", nil)
	rows := list.SetResults(resultsFor(2, 1, 2), factory)

	list.SetResults(nil, factory)
	if len(list.Rows()) != 0 {
		t.Fatalf("rows = %d, want 0", len(list.Rows()))
	}
	for _, row := range rows {
		if row.Preloader.State() != imageload.StateCancelled {
			t.Errorf("row %s state = %v", row.ViewID, row.Preloader.State())
		}
	}
	if list.View() != "" {
		t.Error("expected empty view for blank query")
	}
}

func TestResultList_MetaLine(t *testing.T) {
	tests := []struct {
		name  string
		total int
		ids   []int
		want  string
	}{
		{"all shown", 2, []int{1, 2}, "Found 2"},
		{"truncated", 1084, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, "Found 1,084, only showing first 10"},
		{"none", 0, nil, "Found 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewResultList(8, 4, "", nil)
			list.SetResults(resultsFor(tt.total, tt.ids...), func(url string) *imageload.Preloader {
				return imageload.NewPreloader(context.Background(), url, imageload.NewRegistry(), blockingLoader)
			})
			defer list.TeardownAll()

			if got := list.MetaLine(); got != tt.want {
				t.Errorf("MetaLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultList_ThumbnailSwapsAfterLoad(t *testing.T) {
	registry := imageload.NewRegistry()
	release := make(chan struct{})
	loader := imageload.LoaderFunc(func(ctx context.Context, url string) (image.Image, error) {
		<-release
		return solidImage(8, 8), nil
	})

	list := NewResultList(8, 4, "", nil)
	rows := list.SetResults(resultsFor(1, 1), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, registry, loader)
	})
	row := rows[0]

	if got := list.thumbnail(row); !strings.Contains(got, "░") {
		t.Fatalf("expected placeholder before load, got %q", got)
	}

	close(release)
	waitSettled(t, row.Preloader)

	got := list.thumbnail(row)
	if !strings.Contains(got, upperHalfBlock) || strings.Contains(got, "░") {
		t.Errorf("expected rendered image after load, got %q", got)
	}
}

func TestResultList_KnownURLRendersFromLookup(t *testing.T) {
	registry := imageload.NewRegistry()
	url := domain.Picture{ID: 7}.ImageURL("")
	registry.MarkLoaded(url)

	lookup := mapLookup{url: solidImage(8, 8)}
	list := NewResultList(8, 4, "", lookup)
	rows := list.SetResults(resultsFor(1, 7), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, registry, blockingLoader)
	})

	if rows[0].Preloader.State() != imageload.StateLoaded {
		t.Fatalf("state = %v, want loaded", rows[0].Preloader.State())
	}
	if got := list.thumbnail(rows[0]); !strings.Contains(got, upperHalfBlock) {
		t.Errorf("expected image from lookup, got %q", got)
	}
}

func TestResultList_CursorStaysInRange(t *testing.T) {
	list := NewResultList(8, 4, "", nil)
	list.SetSize(80, 40)
	list.SetResults(resultsFor(3, 1, 2, 3), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, imageload.NewRegistry(), blockingLoader)
	})
	defer list.TeardownAll()

	list.cursor = 2
	list.SetResults(resultsFor(1, 1), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, imageload.NewRegistry(), blockingLoader)
	})
	if list.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", list.Cursor())
	}
	if sel := list.Selected(); sel == nil || sel.Result.Picture.ID != 1 {
		t.Errorf("selected = %v", sel)
	}
}

func TestResultList_EvictedThumbnailIsRefetched(t *testing.T) {
	registry := imageload.NewRegistry()
	url := domain.Picture{ID: 3}.ImageURL("")
	registry.MarkLoaded(url)

	list := NewResultList(8, 4, "", mapLookup{})
	rows := list.SetResults(resultsFor(1, 3), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, registry, blockingLoader)
	})
	row := rows[0]

	if !list.NeedsPixels(row) {
		t.Fatal("Loaded row missing from the cache should need pixels")
	}
	if list.NeedsPixels(row) {
		t.Error("pixels requested twice for the same row")
	}
	if got := list.thumbnail(row); !strings.Contains(got, "░") {
		t.Errorf("expected placeholder while fetching, got %q", got)
	}

	if !list.SetThumbnail(row.ViewID, solidImage(8, 8)) {
		t.Fatal("SetThumbnail() did not find the mounted row")
	}
	if got := list.thumbnail(row); !strings.Contains(got, upperHalfBlock) {
		t.Errorf("expected fetched image, got %q", got)
	}
	if row.Preloader.State() != imageload.StateLoaded {
		t.Errorf("state = %v, want loaded", row.Preloader.State())
	}

	if list.SetThumbnail("gone", solidImage(8, 8)) {
		t.Error("SetThumbnail() accepted an unknown view id")
	}
}

func TestResultList_CachedOrPreloadedRowsNeedNoPixels(t *testing.T) {
	registry := imageload.NewRegistry()
	url := domain.Picture{ID: 4}.ImageURL("")
	registry.MarkLoaded(url)

	list := NewResultList(8, 4, "", mapLookup{url: solidImage(8, 8)})
	rows := list.SetResults(resultsFor(2, 4, 5), func(url string) *imageload.Preloader {
		return imageload.NewPreloader(context.Background(), url, registry, blockingLoader)
	})
	defer list.TeardownAll()

	for _, row := range rows {
		if list.NeedsPixels(row) {
			t.Errorf("row %s should not need a fetch", row.URL)
		}
	}
}
