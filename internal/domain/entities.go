package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultImageURLTemplate is the display URL for a picture; {id} is replaced
// by the picture identifier.
const DefaultImageURLTemplate = "https://picsum.photos/1000/1000?image={id}"

// Picture is one record of the downloaded picture list.
// Records are immutable once fetched.
type Picture struct {
	ID        int    `json:"id"`
	Author    string `json:"author"`
	Filename  string `json:"filename"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	AuthorURL string `json:"author_url,omitempty"`
	PostURL   string `json:"post_url,omitempty"`
}

// GetID returns the identifier as a string, used to key result rows
func (p Picture) GetID() string {
	return strconv.Itoa(p.ID)
}

// ImageURL derives the display URL from a template containing {id}
func (p Picture) ImageURL(template string) string {
	if template == "" {
		template = DefaultImageURLTemplate
	}
	return strings.ReplaceAll(template, "{id}", p.GetID())
}

// Dimensions returns the "WxH (format)" summary shown under each result
func (p Picture) Dimensions() string {
	return fmt.Sprintf("%dx%d (%s)", p.Width, p.Height, p.Format)
}
