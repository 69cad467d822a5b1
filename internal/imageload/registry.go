package imageload

import "sync"

// Registry records which image URLs have completed a successful preload at
// least once during the session. It only grows; entries are never removed.
//
// A single Registry is shared by every Preloader of a session so repeat views
// of the same URL skip the placeholder and render directly.
type Registry struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{urls: make(map[string]struct{})}
}

// Contains reports whether url has been marked loaded
func (r *Registry) Contains(url string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.urls[url]
	return ok
}

// MarkLoaded records url as loaded. Marking a present URL is a no-op.
func (r *Registry) MarkLoaded(url string) {
	r.mu.Lock()
	r.urls[url] = struct{}{}
	r.mu.Unlock()
}

// Len returns the number of URLs recorded
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.urls)
}
