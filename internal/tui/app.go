package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/pixfind/internal/domain"
	"github.com/mmcdole/pixfind/internal/imageload"
	"github.com/mmcdole/pixfind/internal/search"
	"github.com/mmcdole/pixfind/internal/tui/components"
	"github.com/mmcdole/pixfind/internal/tui/styles"
)

const (
	spinnerInterval = 100 * time.Millisecond
	statusDuration  = 3 * time.Second

	// Input box (3 lines) plus the footer line
	ChromeHeight = 4
)

// Searcher filters the picture list for a query
type Searcher interface {
	Filter(query string, pictures []domain.Picture) *search.Results
}

// Deps holds everything the model needs from the outside
type Deps struct {
	Catalog     Catalog
	Search      Searcher
	Opener      Opener
	Registry    *imageload.Registry
	Loader      imageload.Loader
	Thumbnails  components.ImageLookup // Renders URLs the registry already knows
	URLTemplate string
	ThumbCols   int
	ThumbRows   int
	Refresh     bool // Skip the cached list on startup
	Logger      *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	deps   Deps
	keys   KeyMap
	logger *slog.Logger

	// Preloads are children of ctx; cancel stops everything on quit
	ctx    context.Context
	cancel context.CancelFunc

	// UI Components
	Input   textinput.Model
	Results components.ResultList

	// Data
	Pictures []domain.Picture

	// Dimensions
	Width  int
	Height int

	// UI state
	Loading      bool
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new TUI model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Registry == nil {
		deps.Registry = imageload.NewRegistry()
	}

	input := textinput.New()
	input.Placeholder = "Type your search here..."
	input.Prompt = "› "
	input.PromptStyle = styles.InputPromptStyle
	input.Focus()

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		deps:    deps,
		keys:    DefaultKeyMap(),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		Input:   input,
		Results: components.NewResultList(deps.ThumbCols, deps.ThumbRows, deps.URLTemplate, deps.Thumbnails),
		Loading: true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		LoadPicturesCmd(m.deps.Catalog, m.deps.Refresh),
		TickCmd(spinnerInterval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		if !m.Loading {
			return m, nil
		}
		m.SpinnerFrame++
		return m, TickCmd(spinnerInterval)

	case PicturesLoadedMsg:
		m.Loading = false
		m.Pictures = msg.Result.Pictures
		m.logger.Info("picture list ready",
			"count", len(m.Pictures),
			"fromCache", msg.Result.FromCache,
			"fetchedAt", msg.Result.FetchedAt)
		cmd := m.runSearch()
		if msg.Result.FromCache {
			cmd = tea.Batch(cmd, StatusCmd("Using list cached "+humanize.Time(msg.Result.FetchedAt), false))
		}
		return m, cmd

	case ThumbnailSettledMsg:
		row := m.Results.FindRow(msg.ViewID)
		if row == nil {
			// Row was unmounted while its preload was in flight
			return m, nil
		}
		if err := row.Preloader.Err(); err != nil {
			m.logger.Warn("thumbnail unavailable", "url", row.URL, "error", err)
		}
		return m, nil

	case ThumbnailFetchedMsg:
		if msg.Err != nil {
			m.logger.Warn("thumbnail refetch failed", "viewID", msg.ViewID, "error", msg.Err)
		}
		m.Results.SetThumbnail(msg.ViewID, msg.Image)
		return m, nil

	case OpenedMsg:
		m.StatusMsg = "Opened " + msg.URL
		m.StatusIsErr = false
		return m, ClearStatusCmd(statusDuration)

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		m.logger.Error("error", "context", msg.Context, "error", msg.Err)
		return m, ClearStatusCmd(statusDuration)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusDuration)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.Loading {
			return m, nil
		}
		m.Loading = true
		return m, tea.Batch(LoadPicturesCmd(m.deps.Catalog, true), TickCmd(spinnerInterval))

	case key.Matches(msg, m.keys.Open):
		row := m.Results.Selected()
		if row == nil || m.deps.Opener == nil {
			return m, nil
		}
		return m, OpenCmd(m.deps.Opener, row.URL)
	}

	var handled bool
	if m.Results, handled = m.Results.Update(msg); handled {
		return m, nil
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.runSearch())
}

// runSearch filters the list for the current query and reconciles the
// result rows. New rows start preloading; a command per new row reports
// when its thumbnail settles. Rows born Loaded whose pixels left the
// thumbnail cache get them fetched again.
func (m *Model) runSearch() tea.Cmd {
	if m.Pictures == nil {
		return nil
	}

	results := m.deps.Search.Filter(m.Input.Value(), m.Pictures)
	mounted := m.Results.SetResults(results, m.newPreloader)

	cmds := make([]tea.Cmd, 0, len(mounted))
	for _, row := range mounted {
		cmds = append(cmds, WaitThumbnailCmd(row))
		if m.Results.NeedsPixels(row) {
			cmds = append(cmds, FetchThumbnailCmd(m.ctx, m.deps.Loader, row))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) newPreloader(url string) *imageload.Preloader {
	return imageload.NewPreloader(m.ctx, url, m.deps.Registry, m.deps.Loader,
		imageload.WithLogger(m.logger))
}

// Shutdown tears down every mounted row and cancels outstanding preloads
func (m *Model) Shutdown() {
	m.Results.TeardownAll()
	m.cancel()
}

func (m *Model) updateLayout() {
	m.Input.Width = max(m.Width-8, 10)
	m.Results.SetSize(m.Width, m.Height-ChromeHeight)
}

// View renders the UI
func (m Model) View() string {
	header := styles.InputBoxStyle.Width(max(m.Width-2, 10)).Render(m.Input.View())

	bodyHeight := max(m.Height-ChromeHeight, 0)
	body := m.Results.View()
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// FooterText returns the list download state shown in the footer
func (m Model) FooterText() string {
	if m.Loading {
		return "Downloading list of pictures..."
	}
	return fmt.Sprintf("Downloaded list of %s pictures", humanize.Comma(int64(len(m.Pictures))))
}

// ThumbnailText reports how many distinct images have loaded this session
func (m Model) ThumbnailText() string {
	n := m.deps.Registry.Len()
	if n == 1 {
		return "1 image loaded"
	}
	return humanize.Comma(int64(n)) + " images loaded"
}

func (m Model) renderFooter() string {
	var left string
	if m.Loading {
		frame := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		left = styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render(m.FooterText())
	} else {
		left = styles.DimStyle.Render(m.FooterText())
	}
	left += styles.DimStyle.Render(" · " + m.ThumbnailText())

	var right string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		right = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		right = styles.SuccessStyle.Render(m.StatusMsg)
	default:
		var help []string
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			help = append(help, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
		}
		right = strings.Join(help, "  ")
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
