package picsum

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/mmcdole/pixfind/internal/domain"
)

// MapPicturesV1 converts legacy list entries to domain pictures
func MapPicturesV1(items []PictureV1) []domain.Picture {
	pictures := make([]domain.Picture, 0, len(items))
	for _, item := range items {
		pictures = append(pictures, domain.Picture{
			ID:        item.ID,
			Author:    item.Author,
			Filename:  item.Filename,
			Width:     item.Width,
			Height:    item.Height,
			Format:    item.Format,
			AuthorURL: item.AuthorURL,
			PostURL:   item.PostURL,
		})
	}
	return pictures
}

// MapPicturesV2 converts v2 entries, which carry no filename or format.
// The filename is rebuilt the way the legacy list named files:
// zero-padded id, underscore, Unsplash photo slug.
func MapPicturesV2(items []PictureV2) []domain.Picture {
	pictures := make([]domain.Picture, 0, len(items))
	for _, item := range items {
		id, err := strconv.Atoi(item.ID)
		if err != nil {
			continue // Skip non-numeric ids
		}

		slug := path.Base(strings.TrimRight(item.URL, "/"))
		if slug == "." || slug == "/" {
			slug = item.ID
		}

		pictures = append(pictures, domain.Picture{
			ID:       id,
			Author:   item.Author,
			Filename: fmt.Sprintf("%04d_%s.jpeg", id, slug),
			Width:    item.Width,
			Height:   item.Height,
			Format:   "jpeg",
			PostURL:  item.URL,
		})
	}
	return pictures
}
