package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/pixfind/internal/imageload"
	"github.com/mmcdole/pixfind/internal/service"
	"github.com/mmcdole/pixfind/internal/tui/components"
)

// Command factories for async operations

// listTimeout bounds a full list download, including v2 paging
const listTimeout = 60 * time.Second

// Catalog is the part of the catalog service the TUI needs
type Catalog interface {
	Pictures(ctx context.Context) (service.CatalogResult, error)
	Refresh(ctx context.Context) (service.CatalogResult, error)
	Invalidate()
}

// Opener hands a picture URL to a viewer
type Opener interface {
	Launch(url string) error
}

// LoadPicturesCmd loads the picture list. With refresh set the stored list is
// dropped and a fresh one fetched.
func LoadPicturesCmd(catalog Catalog, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()

		var (
			res service.CatalogResult
			err error
		)
		if refresh {
			catalog.Invalidate()
			res, err = catalog.Refresh(ctx)
		} else {
			res, err = catalog.Pictures(ctx)
		}
		if err != nil {
			return ErrMsg{Err: err, Context: "downloading picture list"}
		}
		return PicturesLoadedMsg{Result: res}
	}
}

// WaitThumbnailCmd waits until the row's preloader has applied its outcome.
// A row torn down before that still settles, and the message is ignored.
func WaitThumbnailCmd(row *components.ResultRow) tea.Cmd {
	viewID := row.ViewID
	settled := row.Preloader.Settled()
	return func() tea.Msg {
		<-settled
		return ThumbnailSettledMsg{ViewID: viewID}
	}
}

// FetchThumbnailCmd loads pixels for a Loaded row with nothing to draw. The
// preloader is left alone; the result only fills the row's thumbnail.
func FetchThumbnailCmd(ctx context.Context, loader imageload.Loader, row *components.ResultRow) tea.Cmd {
	viewID, url := row.ViewID, row.URL
	return func() tea.Msg {
		img, err := loader.Load(ctx, url)
		return ThumbnailFetchedMsg{ViewID: viewID, Image: img, Err: err}
	}
}

// StatusCmd shows a temporary status message
func StatusCmd(message string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: message, IsError: isError}
	}
}

// OpenCmd opens url in the configured viewer
func OpenCmd(opener Opener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Launch(url); err != nil {
			return ErrMsg{Err: err, Context: "opening picture"}
		}
		return OpenedMsg{URL: url}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
