package components

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mmcdole/pixfind/internal/imageload"
	"github.com/mmcdole/pixfind/internal/search"
	"github.com/mmcdole/pixfind/internal/tui/styles"
)

// minTextLines is the number of text lines beside each thumbnail
const minTextLines = 4

// PreloaderFactory builds the preloader for a newly mounted row
type PreloaderFactory func(url string) *imageload.Preloader

// ImageLookup resolves a loaded display source to its decoded thumbnail
type ImageLookup interface {
	Cached(url string) (image.Image, bool)
}

// ResultRow is one mounted result. Its preloader lives exactly as long as
// the row stays in the list.
type ResultRow struct {
	ViewID    string // Unique per mount, so late messages for old mounts are ignored
	Result    search.Result
	URL       string
	Preloader *imageload.Preloader

	thumb    string // Rendered thumbnail, cached once loaded
	fetching bool   // Pixels requested for a Loaded row missing from the cache
}

// ResultList shows the current matches with their thumbnails
type ResultList struct {
	rows    []*ResultRow
	results *search.Results
	cursor  int
	offset  int
	width   int
	height  int

	thumbCols   int
	thumbRows   int
	urlTemplate string
	lookup      ImageLookup
}

// NewResultList creates a result list drawing thumbCols x thumbRows thumbnails
func NewResultList(thumbCols, thumbRows int, urlTemplate string, lookup ImageLookup) ResultList {
	return ResultList{
		thumbCols:   thumbCols,
		thumbRows:   thumbRows,
		urlTemplate: urlTemplate,
		lookup:      lookup,
	}
}

// SetResults reconciles the mounted rows with results, keyed by picture ID.
// Rows whose picture is still shown keep their preloader, rows that drop out
// are torn down, and new pictures get a fresh preloader from newPreloader.
// It returns the rows mounted by this call.
func (l *ResultList) SetResults(results *search.Results, newPreloader PreloaderFactory) []*ResultRow {
	existing := make(map[string]*ResultRow, len(l.rows))
	for _, row := range l.rows {
		existing[row.Result.Picture.GetID()] = row
	}

	var rows, mounted []*ResultRow
	if results != nil {
		for _, res := range results.Matches {
			id := res.Picture.GetID()
			if row, ok := existing[id]; ok {
				row.Result = res // Highlights follow the new query
				rows = append(rows, row)
				delete(existing, id)
				continue
			}

			url := res.Picture.ImageURL(l.urlTemplate)
			row := &ResultRow{
				ViewID:    uuid.NewString(),
				Result:    res,
				URL:       url,
				Preloader: newPreloader(url),
			}
			rows = append(rows, row)
			mounted = append(mounted, row)
		}
	}

	for _, row := range existing {
		row.Preloader.Teardown()
	}

	l.rows = rows
	l.results = results
	l.clampCursor()
	return mounted
}

// TeardownAll unmounts every row
func (l *ResultList) TeardownAll() {
	for _, row := range l.rows {
		row.Preloader.Teardown()
	}
	l.rows = nil
	l.results = nil
	l.cursor = 0
	l.offset = 0
}

// FindRow returns the mounted row with viewID, or nil
func (l ResultList) FindRow(viewID string) *ResultRow {
	for _, row := range l.rows {
		if row.ViewID == viewID {
			return row
		}
	}
	return nil
}

// Rows returns the mounted rows in display order
func (l ResultList) Rows() []*ResultRow {
	return l.rows
}

// Selected returns the row under the cursor, or nil
func (l ResultList) Selected() *ResultRow {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	return l.rows[l.cursor]
}

// Cursor returns the selected index
func (l ResultList) Cursor() int {
	return l.cursor
}

// SetSize updates the component dimensions
func (l *ResultList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampCursor()
}

// Update handles navigation keys; handled is false for anything else
func (l ResultList) Update(msg tea.Msg) (ResultList, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(l.rows) == 0 {
		return l, false
	}

	page := l.visibleRows()
	switch {
	case key.Matches(keyMsg, ResultListKeys.Up):
		l.cursor--
	case key.Matches(keyMsg, ResultListKeys.Down):
		l.cursor++
	case key.Matches(keyMsg, ResultListKeys.PageUp):
		l.cursor -= page
	case key.Matches(keyMsg, ResultListKeys.PageDown):
		l.cursor += page
	default:
		return l, false
	}
	l.clampCursor()
	return l, true
}

func (l *ResultList) clampCursor() {
	if l.cursor >= len(l.rows) {
		l.cursor = len(l.rows) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	visible := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l ResultList) rowHeight() int {
	return max(l.thumbRows, minTextLines)
}

// visibleRows is how many rows fit below the meta line
func (l ResultList) visibleRows() int {
	if l.height <= 0 {
		return max(len(l.rows), 1)
	}
	n := (l.height - 2) / (l.rowHeight() + 1)
	return max(n, 1)
}

// MetaLine returns "Found N" with a note when only the first matches are shown
func (l ResultList) MetaLine() string {
	if l.results == nil {
		return ""
	}
	line := "Found " + humanize.Comma(int64(l.results.Total))
	if l.results.Truncated() {
		line += fmt.Sprintf(", only showing first %d", len(l.results.Matches))
	}
	return line
}

// View renders the component
func (l ResultList) View() string {
	if l.results == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.MetaStyle.Render(l.MetaLine()))
	b.WriteString("\n\n")

	end := min(l.offset+l.visibleRows(), len(l.rows))
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderRow(l.rows[i], i == l.cursor))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func (l ResultList) renderRow(row *ResultRow, selected bool) string {
	height := l.rowHeight()

	marker := " "
	if selected {
		marker = styles.SelectedMarker
	}
	markers := strings.TrimSuffix(strings.Repeat(marker+"\n", height), "\n")

	textWidth := max(l.width-l.thumbCols-4, 10)
	p := row.Result.Picture
	lines := []string{
		highlightMatches(styles.Truncate(p.Author, textWidth), row.Result.AuthorMatches, authorHighlight),
		highlightMatches(styles.Truncate(p.Filename, textWidth), row.Result.FilenameMatches, filenameHighlight),
		styles.DimStyle.Render(p.Dimensions()),
		highlightMatches(styles.Truncate(row.URL, textWidth), nil, plainHighlight),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		markers,
		" ",
		l.thumbnail(row),
		"  ",
		strings.Join(lines, "\n"),
	)
}

// thumbnail draws the row's display source: the placeholder until the
// preloader reports Loaded, then the decoded image.
func (l ResultList) thumbnail(row *ResultRow) string {
	if row.thumb != "" {
		return row.thumb
	}

	p := row.Preloader
	if p.State() != imageload.StateLoaded {
		return RenderPlaceholder(l.thumbCols, l.thumbRows)
	}

	img := p.Image()
	if img == nil && l.lookup != nil {
		img, _ = l.lookup.Cached(p.Source())
	}
	if img == nil {
		// Pixels evicted from the thumbnail cache; drawn once NeedsPixels' fetch lands
		return RenderPlaceholder(l.thumbCols, l.thumbRows)
	}

	row.thumb = RenderImage(img, l.thumbCols, l.thumbRows)
	return row.thumb
}

// NeedsPixels reports whether row is Loaded but has nothing to draw: its URL
// was loaded earlier in the session and the thumbnail cache has since
// evicted it. The row is marked so the fetch is requested only once.
func (l ResultList) NeedsPixels(row *ResultRow) bool {
	if row.thumb != "" || row.fetching {
		return false
	}

	p := row.Preloader
	if p.State() != imageload.StateLoaded || p.Image() != nil {
		return false
	}
	if l.lookup != nil {
		if _, ok := l.lookup.Cached(p.Source()); ok {
			return false
		}
	}

	row.fetching = true
	return true
}

// SetThumbnail draws img for the row mounted as viewID. It returns false
// when that row is no longer mounted.
func (l ResultList) SetThumbnail(viewID string, img image.Image) bool {
	row := l.FindRow(viewID)
	if row == nil {
		return false
	}
	row.fetching = false
	if img != nil {
		row.thumb = RenderImage(img, l.thumbCols, l.thumbRows)
	}
	return true
}
