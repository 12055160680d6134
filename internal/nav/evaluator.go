package nav

import (
	"log"
	"sync/atomic"

	"sandyadmin/internal/model"
)

// SessionSource is where the guard reads authentication state. The guard
// only reads; the session store is the single writer.
type SessionSource interface {
	Current() model.Session
}

// Guard re-evaluates the redirect decision against the router. It starts in
// the loading state, which suppresses all redirects until the initial
// restore has finished.
type Guard struct {
	router  *Router
	source  SessionSource
	loading atomic.Bool
}

func NewGuard(router *Router, source SessionSource) *Guard {
	g := &Guard{router: router, source: source}
	g.loading.Store(true)
	return g
}

// FinishLoading clears the loading flag and runs the first evaluation.
func (g *Guard) FinishLoading() {
	g.loading.Store(false)
	g.Evaluate()
}

// Evaluate runs the decision function against the current session and route
// and applies any redirect. Call after every auth change and route change.
func (g *Guard) Evaluate() Decision {
	d := Decide(g.loading.Load(), g.source.Current().Authenticated(), g.router.Segments())
	if !d.Redirect {
		return d
	}

	log.Printf("[Guard] Redirecting to %s", d.Target)
	if err := g.router.Replace(d.Target, nil); err != nil {
		log.Printf("[Guard] Redirect failed: %v", err)
	}
	return d
}
