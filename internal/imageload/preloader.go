// Package imageload implements progressive thumbnail loading: a placeholder is
// shown immediately, the real image is fetched and decoded off the render
// path, and it is swapped in only once decoding completes. Views that go away
// before that point cancel their preload.
package imageload

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/mmcdole/pixfind/internal/domain"
)

// Placeholder is the display source used until the real image is ready
const Placeholder = "placeholder:lazyload-thumbnail"

// State is the lifecycle state of a Preloader
type State int

const (
	StatePlaceholder State = iota
	StatePreloading
	StateLoaded
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePlaceholder:
		return "placeholder"
	case StatePreloading:
		return "preloading"
	case StateLoaded:
		return "loaded"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Preloader
type Option func(*Preloader)

// WithOnReady registers a callback invoked once when the real image becomes
// the display source through a completed preload.
func WithOnReady(fn func(url string)) Option {
	return func(p *Preloader) {
		p.onReady = fn
	}
}

// WithLogger sets the logger used for preload diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preloader) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Preloader decides, for one view instance, whether to show the placeholder
// or the real image, performs the preload and cancels it on teardown.
//
// At most one preload is in flight per instance. Cancelled and Loaded are
// terminal. A failed preload leaves the instance in StatePreloading showing
// the placeholder; there is no retry.
type Preloader struct {
	url      string
	registry *Registry
	logger   *slog.Logger
	onReady  func(url string)

	mu      sync.Mutex
	state   State
	source  string
	task    *Task[image.Image]
	image   image.Image
	err     error
	applied bool
	settled chan struct{}
}

// NewPreloader creates the preloader for url. If the registry already knows
// url the instance starts Loaded and no preload happens. Otherwise the
// placeholder is shown and the preload starts immediately; this call never
// blocks on it.
func NewPreloader(ctx context.Context, url string, registry *Registry, loader Loader, opts ...Option) *Preloader {
	p := &Preloader{
		url:      url,
		registry: registry,
		logger:   slog.Default(),
		settled:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if registry.Contains(url) {
		p.state = StateLoaded
		p.source = url
		p.applied = true
		close(p.settled)
		return p
	}

	p.state = StatePlaceholder
	p.source = Placeholder
	p.startPreload(ctx, loader)
	return p
}

// startPreload moves Placeholder -> Preloading
func (p *Preloader) startPreload(ctx context.Context, loader Loader) {
	url := p.url
	task := Go(ctx, func(ctx context.Context) (image.Image, error) {
		return loader.Load(ctx, url)
	})

	p.mu.Lock()
	p.task = task
	p.state = StatePreloading
	p.mu.Unlock()

	p.logger.Debug("preload started", "url", url)
	go p.await(task)
}

func (p *Preloader) await(task *Task[image.Image]) {
	<-task.Done()

	p.mu.Lock()
	ready := p.apply(task)
	p.mu.Unlock()

	if ready && p.onReady != nil {
		p.onReady(p.url)
	}
}

// apply commits the settled outcome of task exactly once. Caller holds p.mu.
// Returns true when the instance just became Loaded.
func (p *Preloader) apply(task *Task[image.Image]) bool {
	if p.applied {
		return false
	}
	p.applied = true
	defer close(p.settled)

	img, outcome, err := task.Result()
	p.task = nil

	switch outcome {
	case OutcomeCompleted:
		p.state = StateLoaded
		p.source = p.url
		p.image = img
		p.registry.MarkLoaded(p.url)
		p.logger.Debug("preload complete", "url", p.url)
		return true
	case OutcomeFailed:
		p.err = fmt.Errorf("%w: %s: %w", domain.ErrDecodeFailed, p.url, err)
		p.logger.Warn("preload failed, keeping placeholder", "url", p.url, "error", err)
	case OutcomeCancelled:
		p.state = StateCancelled
		p.logger.Debug("preload cancelled", "url", p.url)
	}
	return false
}

// Teardown is called when the consuming view goes away. An in-flight preload
// is aborted and its result discarded. If the preload already finished but
// had not been applied yet, it is committed first. Safe to call repeatedly.
func (p *Preloader) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardownLocked()
}

// teardownLocked ends the preload. Caller holds p.mu.
func (p *Preloader) teardownLocked() {
	if p.state != StatePreloading {
		return
	}

	if p.task != nil {
		task := p.task
		task.Cancel()
		p.apply(task)
	}

	// A failed preload parks in Preloading; teardown still ends it.
	if p.state == StatePreloading {
		p.state = StateCancelled
	}
}

// URL returns the target image URL
func (p *Preloader) URL() string {
	return p.url
}

// Source returns the current display source: the placeholder or the URL
func (p *Preloader) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// State returns the current lifecycle state
func (p *Preloader) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Image returns the decoded thumbnail once a preload has completed. It is nil
// for instances that started Loaded from the registry.
func (p *Preloader) Image() image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.image
}

// Err returns the preload failure, if any
func (p *Preloader) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Settled is closed once the preload outcome has been applied. It is closed
// from the start for instances that skipped the preload.
func (p *Preloader) Settled() <-chan struct{} {
	return p.settled
}
