package nav

import (
	"log"
	"net/url"
	"strings"
	"sync"

	"sandyadmin/internal/model"
)

// Router tracks the current route and applies replace-style navigations.
// Replacing to the route already shown (with no params) is a no-op, which
// makes guard redirects idempotent.
type Router struct {
	mu      sync.Mutex
	ready   bool
	current string
	params  url.Values
}

func NewRouter() *Router {
	return &Router{}
}

// SetReady marks the router mounted with its initial route. Navigation before
// this point fails with model.ErrRouterNotReady (cold start).
func (r *Router) SetReady(initial string) {
	r.mu.Lock()
	r.ready = true
	r.current = initial
	r.params = nil
	r.mu.Unlock()
	log.Printf("[Router] Ready at %s", initial)
}

// Replace swaps the current route. params, if non-nil, always forces the
// navigation through even when the path matches (cache-busting refresh).
func (r *Router) Replace(path string, params map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.ready {
		return model.ErrRouterNotReady
	}
	if path == r.current && params == nil {
		return nil
	}

	r.current = path
	r.params = url.Values{}
	for k, v := range params {
		r.params.Set(k, v)
	}
	log.Printf("[Router] Replace -> %s params=%v", path, params)
	return nil
}

// Current returns the current route path.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Params returns the params carried by the last navigation.
func (r *Router) Params() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// Segments splits the current route into its path segments, so
// "/(tabs)/orders" yields ["(tabs)", "orders"].
func (r *Router) Segments() []string {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()

	trimmed := strings.Trim(current, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
