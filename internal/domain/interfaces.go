package domain

import (
	"context"
	"time"
)

// PictureSource fetches the full picture list from the remote endpoint.
type PictureSource interface {
	ListPictures(ctx context.Context) ([]Picture, error)
}

// PictureStore is the session cache for the downloaded list (BoltDB + memory).
type PictureStore interface {
	// GetPictures returns the cached list and when it was fetched
	GetPictures() ([]Picture, time.Time, bool)
	SavePictures(pictures []Picture, fetchedAt time.Time) error

	// Invalidate wipes the cached list
	Invalidate()

	Close() error
}
