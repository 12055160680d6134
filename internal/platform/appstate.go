package platform

import (
	"log"
	"sync"

	"sandyadmin/internal/model"
)

// AppStateTracker holds the process foreground/background status reported by
// the host lifecycle bridge. It is an explicit dependency handed to whoever
// needs the state, not a package-level variable.
type AppStateTracker struct {
	mu    sync.RWMutex
	state model.AppState
}

func NewAppStateTracker() *AppStateTracker {
	return &AppStateTracker{state: model.AppStateActive}
}

// Set records a lifecycle transition.
func (t *AppStateTracker) Set(state model.AppState) {
	t.mu.Lock()
	prev := t.state
	t.state = state
	t.mu.Unlock()

	if prev != state {
		log.Printf("[Platform] App state changed: %s -> %s", prev, state)
	}
}

// Get returns the current state.
func (t *AppStateTracker) Get() model.AppState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
