package tui

import (
	"image"

	"github.com/mmcdole/pixfind/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PicturesLoadedMsg signals that the picture list is available
type PicturesLoadedMsg struct {
	Result service.CatalogResult
}

// ThumbnailSettledMsg signals that a row's preload outcome was applied
type ThumbnailSettledMsg struct {
	ViewID string
}

// ThumbnailFetchedMsg carries pixels refetched for a row whose URL was
// already loaded but had been evicted from the thumbnail cache
type ThumbnailFetchedMsg struct {
	ViewID string
	Image  image.Image
	Err    error
}

// OpenedMsg signals that a picture was handed to the viewer
type OpenedMsg struct {
	URL string
}

// TickMsg is sent periodically for spinner animation
type TickMsg struct{}

// StatusMsg displays a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
