package notify

import (
	"sync"

	"sandyadmin/internal/model"
	"sandyadmin/internal/relay"
)

// Event is a normalized inbound notification as seen by subscribers,
// whichever transport it arrived on.
type Event struct {
	Origin   model.MessageOrigin
	AppState model.AppState
	Message  relay.Message
}

// Subscription is the handle returned by Subscribe. Close unregisters the
// listener; it is idempotent and safe across goroutines, so deferred Closes
// at screen teardown cannot leak listeners.
type Subscription struct {
	once sync.Once
	stop func()
}

// Close unregisters the listener.
func (s *Subscription) Close() {
	s.once.Do(s.stop)
}

type listenerSet struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(Event)
}

func newListenerSet() *listenerSet {
	return &listenerSet{fns: make(map[int]func(Event))}
}

func (l *listenerSet) add(fn func(Event)) *Subscription {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.mu.Unlock()

	return &Subscription{stop: func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}}
}

func (l *listenerSet) emit(ev Event) {
	l.mu.Lock()
	fns := make([]func(Event), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	// Called outside the lock so a listener may Close its own subscription.
	for _, fn := range fns {
		fn(ev)
	}
}
