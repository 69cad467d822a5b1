package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mmcdole/pixfind/internal/adapter"
	"github.com/mmcdole/pixfind/internal/adapter/source"
	"github.com/mmcdole/pixfind/internal/imageload"
	"github.com/mmcdole/pixfind/internal/search"
	"github.com/mmcdole/pixfind/internal/service"
	"github.com/mmcdole/pixfind/internal/store"
	"github.com/mmcdole/pixfind/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	showVersion bool
	query       string
	refresh     bool
	clearCache  bool
	writeConfig bool
	configPath  string
}

func main() {
	var opts options
	flag.BoolVar(&opts.showVersion, "v", false, "print version")
	flag.BoolVar(&opts.showVersion, "version", false, "print version")
	flag.StringVar(&opts.query, "q", "", "print matches for `query` and exit")
	flag.BoolVar(&opts.refresh, "refresh", false, "ignore the cached picture list")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "remove cached data and exit")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "write the current configuration and exit")
	flag.StringVar(&opts.configPath, "config", "", "read configuration from `file`")
	flag.Parse()

	if opts.showVersion {
		fmt.Printf("pixfind %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	var (
		cfg *adapter.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = adapter.LoadConfigFrom(opts.configPath)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.writeConfig {
		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved!")
		return nil
	}

	if opts.clearCache {
		if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting pixfind", "version", Version)

	pictureStore, err := store.NewPictureStore(cfg.Cache.Dir)
	if err != nil {
		logger.Warn("picture cache unavailable, using memory only", "error", err)
		pictureStore, _ = store.NewPictureStore("")
	}
	defer pictureStore.Close()

	client, err := source.NewClient(&cfg.Source, logger)
	if err != nil {
		return fmt.Errorf("failed to create picture source: %w", err)
	}

	catalog := service.NewCatalogService(client, pictureStore, cfg.Cache.TTL, logger)
	searchSvc := search.NewService(cfg.Search.Mode, cfg.Search.MaxResults, logger)

	interactive := opts.query == "" && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		if strings.TrimSpace(opts.query) == "" {
			return fmt.Errorf("stdout is not a terminal: pass a query with -q")
		}
		return printMatches(os.Stdout, catalog, searchSvc, cfg, opts)
	}

	// Two pixels per terminal row
	httpLoader := imageload.NewHTTPLoader(&http.Client{}, cfg.Thumbnails.Width, cfg.Thumbnails.Height*2, cfg.Thumbnails.Scaler, logger)
	thumbnails, err := imageload.NewCachingLoader(httpLoader, cfg.Thumbnails.CacheSize)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail cache: %w", err)
	}

	model := tui.NewModel(tui.Deps{
		Catalog:     catalog,
		Search:      searchSvc,
		Opener:      adapter.NewLauncher(cfg.Opener.Command, cfg.Opener.Args, logger),
		Registry:    imageload.NewRegistry(),
		Loader:      thumbnails,
		Thumbnails:  thumbnails,
		URLTemplate: cfg.Source.ImageURLTemplate,
		ThumbCols:   cfg.Thumbnails.Width,
		ThumbRows:   cfg.Thumbnails.Height,
		Refresh:     opts.refresh,
		Logger:      logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Shutdown()
	}
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// printMatches is the non-interactive mode: one block per match, plain text
func printMatches(w io.Writer, catalog *service.CatalogService, searchSvc *search.Service, cfg *adapter.Config, opts options) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var (
		res service.CatalogResult
		err error
	)
	if opts.refresh {
		catalog.Invalidate()
		res, err = catalog.Refresh(ctx)
	} else {
		res, err = catalog.Pictures(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to download picture list: %w", err)
	}

	results := searchSvc.Filter(opts.query, res.Pictures)
	if results == nil {
		return nil
	}

	fmt.Fprintf(w, "Downloaded list of %s pictures\n", humanize.Comma(int64(len(res.Pictures))))
	fmt.Fprintf(w, "Found %s", humanize.Comma(int64(results.Total)))
	if results.Truncated() {
		fmt.Fprintf(w, ", only showing first %d", len(results.Matches))
	}
	fmt.Fprintln(w)

	for _, m := range results.Matches {
		p := m.Picture
		fmt.Fprintf(w, "\n%s\n  %s\n  %s\n  %s\n", p.Author, p.Filename, p.Dimensions(), p.ImageURL(cfg.Source.ImageURLTemplate))
	}
	return nil
}
